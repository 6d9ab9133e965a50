// Package profile holds the profile record, its keyed persistence and the
// pending-capture marker store.
package profile

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/profilekeeper/internal/common"
)

// Gender is a closed two-value enum. The zero value means "not chosen".
type Gender string

const (
	GenderUnset  Gender = ""
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// ParseGender accepts male/female (or m/f) in any case, and the empty string.
func ParseGender(s string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return GenderUnset, nil
	case "male", "m":
		return GenderMale, nil
	case "female", "f":
		return GenderFemale, nil
	default:
		return GenderUnset, fmt.Errorf("%w: %q", common.ErrInvalidGender, s)
	}
}

// genderFromStored maps a persisted value back to the enum; anything
// unrecognised loads as unset.
func genderFromStored(s string) Gender {
	switch Gender(s) {
	case GenderMale, GenderFemale:
		return Gender(s)
	default:
		return GenderUnset
	}
}

// Record keys. Fixed, never user-configurable.
const (
	KeyName   = "name"
	KeyEmail  = "email"
	KeyPhone  = "phone"
	KeyClass  = "class"
	KeyMajor  = "major"
	KeyGender = "gender"
)

// Keys lists every record key in display order.
var Keys = []string{KeyName, KeyEmail, KeyPhone, KeyClass, KeyMajor, KeyGender}

// Record is the flat text part of a profile. Every field may be empty.
type Record struct {
	Name   string
	Email  string
	Phone  string
	Class  string
	Major  string
	Gender Gender
}

// Values returns the record as key/value strings.
func (r Record) Values() map[string]string {
	return map[string]string{
		KeyName:   r.Name,
		KeyEmail:  r.Email,
		KeyPhone:  r.Phone,
		KeyClass:  r.Class,
		KeyMajor:  r.Major,
		KeyGender: string(r.Gender),
	}
}

// RecordFromValues builds a Record; absent keys default to "".
func RecordFromValues(v map[string]string) Record {
	return Record{
		Name:   v[KeyName],
		Email:  v[KeyEmail],
		Phone:  v[KeyPhone],
		Class:  v[KeyClass],
		Major:  v[KeyMajor],
		Gender: genderFromStored(v[KeyGender]),
	}
}

// Get returns the value stored under key.
func (r Record) Get(key string) (string, error) {
	v, ok := r.Values()[key]
	if !ok {
		return "", fmt.Errorf("%w: %q", common.ErrUnknownField, key)
	}
	return v, nil
}

// Set assigns one field by key. Gender values are validated.
func (r *Record) Set(key, value string) error {
	switch key {
	case KeyName:
		r.Name = value
	case KeyEmail:
		r.Email = value
	case KeyPhone:
		r.Phone = value
	case KeyClass:
		r.Class = value
	case KeyMajor:
		r.Major = value
	case KeyGender:
		g, err := ParseGender(value)
		if err != nil {
			return err
		}
		r.Gender = g
	default:
		return fmt.Errorf("%w: %q", common.ErrUnknownField, key)
	}
	return nil
}
