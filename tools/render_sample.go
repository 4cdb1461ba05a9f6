package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"cv-generator/internal/domain"
	"cv-generator/internal/usecase"
)

// Renders a fixture file through the engine without a database, for eyeball
// checks of the two backends. The fixture holds a template, a profile, the
// section definitions and the CV records in one JSON object.
//
// Usage: go run ./tools sample.json [html|latex]

type fixture struct {
	Template domain.Template       `json:"template"`
	Profile  domain.FacultyProfile `json:"profile"`
	Sections []domain.Section      `json:"sections"`
	Records  []domain.CVDataRecord `json:"records"`
}

type fixtureStore struct{ fx fixture }

func (s fixtureStore) GetSections(ctx context.Context) ([]domain.Section, error) {
	return s.fx.Sections, nil
}

func (s fixtureStore) GetUserCVData(ctx context.Context, userID string, sectionIDs []string) ([]domain.CVDataRecord, error) {
	return s.fx.Records, nil
}

func (s fixtureStore) GetFacultyProfile(ctx context.Context, userID string) (domain.FacultyProfile, error) {
	return s.fx.Profile, nil
}

func main() {
	in := "sample.json"
	if len(os.Args) > 1 {
		in = os.Args[1]
	}
	b, err := os.ReadFile(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read fixture: %v\n", err)
		os.Exit(2)
	}
	var fx fixture
	if err := json.Unmarshal(b, &fx); err != nil {
		fmt.Fprintf(os.Stderr, "unmarshal: %v\n", err)
		os.Exit(2)
	}

	var f usecase.Format = usecase.HTMLFormat{}
	if len(os.Args) > 2 && os.Args[2] == "latex" {
		f = usecase.LaTeXFormat{}
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	builder := usecase.NewDocumentBuilder(fixtureStore{fx: fx}, log)
	doc, err := builder.Build(context.Background(), f, fx.Template, []string{fx.Profile.UserID})
	if err != nil {
		fmt.Fprintf(os.Stderr, "build: %v\n", err)
		os.Exit(1)
	}
	fmt.Print(doc)
}
