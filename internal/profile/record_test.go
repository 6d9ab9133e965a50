package profile

import (
	"testing"

	"github.com/dmitrijs2005/profilekeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGender(t *testing.T) {
	tests := []struct {
		in      string
		want    Gender
		wantErr bool
	}{
		{in: "male", want: GenderMale},
		{in: "Female", want: GenderFemale},
		{in: " M ", want: GenderMale},
		{in: "f", want: GenderFemale},
		{in: "", want: GenderUnset},
		{in: "other", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseGender(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, common.ErrInvalidGender)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRecordFromValues_AbsentKeysDefaultToEmpty(t *testing.T) {
	r := RecordFromValues(map[string]string{KeyName: "Ann"})

	assert.Equal(t, Record{Name: "Ann"}, r)
}

func TestRecordFromValues_UnknownGenderLoadsUnset(t *testing.T) {
	r := RecordFromValues(map[string]string{KeyGender: "robot"})

	assert.Equal(t, GenderUnset, r.Gender)
}

func TestRecord_SetAndGet(t *testing.T) {
	var r Record

	require.NoError(t, r.Set(KeyName, "Ann"))
	require.NoError(t, r.Set(KeyEmail, "ann@example.com"))
	require.NoError(t, r.Set(KeyPhone, "555"))
	require.NoError(t, r.Set(KeyClass, "2026"))
	require.NoError(t, r.Set(KeyMajor, "CS"))
	require.NoError(t, r.Set(KeyGender, "female"))

	want := Record{Name: "Ann", Email: "ann@example.com", Phone: "555", Class: "2026", Major: "CS", Gender: GenderFemale}
	assert.Equal(t, want, r)

	v, err := r.Get(KeyMajor)
	require.NoError(t, err)
	assert.Equal(t, "CS", v)

	require.ErrorIs(t, r.Set("nickname", "x"), common.ErrUnknownField)
	_, err = r.Get("nickname")
	require.ErrorIs(t, err, common.ErrUnknownField)

	require.ErrorIs(t, r.Set(KeyGender, "x"), common.ErrInvalidGender)
	assert.Equal(t, GenderFemale, r.Gender, "invalid gender keeps the old value")
}

func TestRecord_ValuesRoundTrip(t *testing.T) {
	want := Record{Name: "Bo", Major: "Math", Gender: GenderMale}

	assert.Equal(t, want, RecordFromValues(want.Values()))
	assert.Len(t, want.Values(), len(Keys))
}
