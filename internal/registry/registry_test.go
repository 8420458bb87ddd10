package registry

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/joseph-ayodele/tebligat-tracker/internal/common"
	"github.com/joseph-ayodele/tebligat-tracker/internal/repository"
	"github.com/joseph-ayodele/tebligat-tracker/internal/utils"
)

const courtList = `# Antalya Mahkemeleri

1. 5. Aile Mahkemesi
2. Korkuteli Asliye Hukuk Mahkemesi
- not a list item
3.
10. 2. İş Mahkemesi
`

func TestParseCourtsList(t *testing.T) {
	courts, err := ParseCourtsList(strings.NewReader(courtList), "")
	if err != nil {
		t.Fatalf("ParseCourtsList: %v", err)
	}
	want := []struct{ name, district string }{
		{"5. Aile Mahkemesi", ""},
		{"Korkuteli Asliye Hukuk Mahkemesi", "Korkuteli"},
		{"2. İş Mahkemesi", ""},
	}
	if len(courts) != len(want) {
		t.Fatalf("got %d courts, want %d", len(courts), len(want))
	}
	for i, w := range want {
		if courts[i].Name != w.name {
			t.Errorf("court %d name = %q, want %q", i, courts[i].Name, w.name)
		}
		if got := utils.StrOrEmpty(courts[i].District); got != w.district {
			t.Errorf("court %d district = %q, want %q", i, got, w.district)
		}
		if courts[i].City != DefaultCity {
			t.Errorf("court %d city = %q", i, courts[i].City)
		}
	}
}

func TestParseCourtsJSON(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    int
		wantErr bool
	}{
		{"valid", `[{"name":"1. Sulh Ceza Hakimliği","city":"Antalya","type":"Sulh Ceza"},{"name":"Serik Asliye Ceza Mahkemesi"}]`, 2, false},
		{"empty array", `[]`, 0, false},
		{"missing name", `[{"city":"Antalya"}]`, 0, true},
		{"unknown field", `[{"name":"X","foo":"bar"}]`, 0, true},
		{"bad type", `[{"name":"X","type":"Uzay"}]`, 0, true},
		{"not json", `{`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			courts, err := ParseCourtsJSON([]byte(tt.data))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				if !common.IsCode(err, "INVALID_SEED") {
					t.Errorf("error code: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCourtsJSON: %v", err)
			}
			if len(courts) != tt.want {
				t.Fatalf("got %d courts, want %d", len(courts), tt.want)
			}
		})
	}

	courts, _ := ParseCourtsJSON([]byte(`[{"name":"Serik Asliye Ceza Mahkemesi"}]`))
	if courts[0].City != DefaultCity || utils.StrOrEmpty(courts[0].District) != "Serik" {
		t.Errorf("defaults not applied: %+v", courts[0])
	}
}

func TestSeedCourts(t *testing.T) {
	ctx := context.Background()
	client, err := repository.OpenInMemory(ctx, nil)
	if err != nil {
		t.Fatalf("OpenInMemory: %v", err)
	}
	t.Cleanup(client.Close)
	repo := repository.NewCourtRepository(client, nil)

	courts, err := ParseCourtsList(strings.NewReader(courtList), "Antalya")
	if err != nil {
		t.Fatal(err)
	}
	res := SeedCourts(ctx, repo, courts, nil)
	if res.Created != 3 || res.Existing != 0 || res.Failed != 0 {
		t.Fatalf("first seed = %+v", res)
	}

	again, _ := ParseCourtsList(strings.NewReader(courtList), "Antalya")
	res = SeedCourts(ctx, repo, again, nil)
	if res.Created != 0 || res.Existing != 3 {
		t.Fatalf("second seed = %+v", res)
	}

	got, err := repo.FindByName(ctx, "5. Aile Mahkemesi")
	if err != nil {
		t.Fatalf("FindByName: %v", err)
	}
	if utils.StrOrEmpty(got.Type) != "Aile" {
		t.Errorf("type = %q, want detected Aile", utils.StrOrEmpty(got.Type))
	}
}

func TestSeedVehicles(t *testing.T) {
	ctx := context.Background()
	client, err := repository.OpenInMemory(ctx, nil)
	if err != nil {
		t.Fatalf("OpenInMemory: %v", err)
	}
	t.Cleanup(client.Close)
	repo := repository.NewVehicleRepository(client, nil)

	vehicles, err := ParseVehiclesJSON([]byte(`[
		{"plate":"07 ABC 123","brand":"Fiat","model":"Doblo","year":2019},
		{"plate":"07 xyz 9","brand":"Renault","model":"Kangoo","year":2021,"type":"Kamyonet"}
	]`))
	if err != nil {
		t.Fatalf("ParseVehiclesJSON: %v", err)
	}
	if res := SeedVehicles(ctx, repo, vehicles, nil); res.Created != 2 {
		t.Fatalf("seed = %+v", res)
	}
	if res := SeedVehicles(ctx, repo, vehicles, nil); res.Existing != 2 {
		t.Fatalf("reseed = %+v", res)
	}

	if _, err := ParseVehiclesJSON([]byte(`[{"plate":"07 A 1","brand":"Fiat","model":"Doblo","year":1900}]`)); !errors.Is(err, common.ErrValidation) {
		t.Errorf("year out of range: err = %v", err)
	}
}
