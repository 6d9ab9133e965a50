package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/profilekeeper/internal/photo"
	"github.com/dmitrijs2005/profilekeeper/internal/profile"
)

var fieldLabels = map[string]string{
	profile.KeyName:   "Name",
	profile.KeyEmail:  "Email",
	profile.KeyPhone:  "Phone",
	profile.KeyClass:  "Class",
	profile.KeyMajor:  "Major",
	profile.KeyGender: "Gender (male/female)",
}

// Show prints the record being edited and the photo currently shown.
func (a *App) Show(ctx context.Context) error {
	values := a.record.Values()

	var b strings.Builder
	for _, k := range profile.Keys {
		v := values[k]
		if v == "" {
			v = "-"
		}
		fmt.Fprintf(&b, "%-8s %s\n", k+":", v)
	}
	fmt.Fprintf(&b, "%-8s %s\n", "photo:", a.controller.Feed().Current())

	a.printf("%s", b.String())
	return nil
}

// Edit prompts for every field in turn; an empty answer keeps the value.
func (a *App) Edit(ctx context.Context) error {
	values := a.record.Values()

	for _, k := range profile.Keys {
		prompt := fmt.Sprintf("%s [%s]", fieldLabels[k], values[k])
		v, err := getSimpleText(a.reader, prompt, a.out)
		if err != nil {
			return err
		}
		if v == "" {
			continue
		}
		if err := a.record.Set(k, v); err != nil {
			a.printf("%v, keeping %q\n", err, values[k])
		}
	}
	return nil
}

func (a *App) Set(ctx context.Context, field, value string) error {
	return a.record.Set(strings.ToLower(field), value)
}

func (a *App) SetGender(ctx context.Context, value string) error {
	g, err := profile.ParseGender(value)
	if err != nil {
		return err
	}
	a.record.Gender = g
	return nil
}

// Capture starts the device. The report is handled in the background and
// announced when it arrives.
func (a *App) Capture(ctx context.Context) error {
	if a.imports != nil {
		path, err := getSimpleText(a.reader, "Path to an image file", a.out)
		if err != nil {
			return err
		}
		if path == "" {
			a.printf("No image selected\n")
			return nil
		}
		a.imports.set(path)
	}

	// a fresh request supersedes whatever a restart was waiting for
	a.stopWatch()

	var (
		cctx   context.Context
		cancel context.CancelFunc
	)
	if a.config.CaptureTimeout > 0 {
		cctx, cancel = context.WithTimeout(ctx, a.config.CaptureTimeout)
	} else {
		cctx, cancel = context.WithCancel(ctx)
	}

	ch, err := a.controller.BeginCapture(cctx)
	if err != nil {
		cancel()
		return err
	}

	a.printf("Capturing...\n")

	a.wg.Add(1)
	go func() {
		defer cancel()
		a.awaitCapture(ctx, ch)
	}()
	return nil
}

func (a *App) Status(ctx context.Context) error {
	marker, ok := a.controller.Marker()
	if !ok {
		marker = "-"
	}
	a.printf("state:   %s\nmarker:  %s\nstaging: %s\nphoto:   %s\n",
		a.controller.State(), marker, a.controller.StagingPath(), a.controller.Feed().Current())
	return nil
}

// Save commits the record and any staged photo. SAVED is printed only when
// both made it.
func (a *App) Save(ctx context.Context) error {
	if a.controller.State() == photo.StateAwaitingCapture {
		a.printf("Capture still in progress; saving without the new photo\n")
	}
	a.stopWatch()

	if err := a.controller.Commit(ctx, a.record); err != nil {
		return err
	}
	a.printf("SAVED\n")
	return nil
}

func (a *App) Cancel(ctx context.Context) error {
	a.stopWatch()
	if err := a.controller.Discard(ctx); err != nil {
		return err
	}
	a.printf("Changes discarded\n")
	return nil
}

// Abandon is leaving without an explicit choice; it discards like Cancel.
func (a *App) Abandon(ctx context.Context) error {
	a.stopWatch()
	return a.controller.Discard(ctx)
}
