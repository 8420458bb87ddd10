package constants

import (
	"strings"
)

type CourtType string

const (
	CourtCivilFirstInstance    CourtType = "Asliye Hukuk"
	CourtCriminalFirstInstance CourtType = "Asliye Ceza"
	CourtFamily                CourtType = "Aile"
	CourtEnforcement           CourtType = "İcra Hukuk"
	CourtLabour                CourtType = "İş"
	CourtCommercial            CourtType = "Ticaret"
	CourtCivilPeace            CourtType = "Sulh Hukuk"
	CourtCriminalPeace         CourtType = "Sulh Ceza"
	CourtAdministrative        CourtType = "İdare"
	CourtTax                   CourtType = "Vergi"
)

var allCourtTypes = []CourtType{
	CourtCivilFirstInstance,
	CourtCriminalFirstInstance,
	CourtFamily,
	CourtEnforcement,
	CourtLabour,
	CourtCommercial,
	CourtCivilPeace,
	CourtCriminalPeace,
	CourtAdministrative,
	CourtTax,
}

// UnknownCity is the placeholder city for courts created during an import.
const UnknownCity = "Bilinmiyor"

// CourtTypeStrings returns the known court types.
func CourtTypeStrings() []string {
	result := make([]string, len(allCourtTypes))
	for i, t := range allCourtTypes {
		result[i] = string(t)
	}
	return result
}

// DetectCourtType guesses the court type from a court name such as
// "5. Aile Mahkemesi". The longest matching type name wins.
func DetectCourtType(name string) (CourtType, bool) {
	if name == "" {
		return "", false
	}

	synonyms := []struct {
		key string
		typ CourtType
	}{
		{"icra", CourtEnforcement},
		{"idare", CourtAdministrative},
		{"iş mah", CourtLabour},
		{"aile", CourtFamily},
		{"ticaret", CourtCommercial},
		{"vergi", CourtTax},
	}

	lower := strings.ToLower(name)
	best := CourtType("")
	for _, t := range allCourtTypes {
		if strings.Contains(lower, strings.ToLower(string(t))) && len(t) > len(best) {
			best = t
		}
	}
	if best != "" {
		return best, true
	}
	for _, syn := range synonyms {
		if strings.Contains(lower, syn.key) {
			return syn.typ, true
		}
	}
	return "", false
}

// Provinces lists the 81 provinces of Türkiye.
var Provinces = []string{
	"Adana", "Adıyaman", "Afyonkarahisar", "Ağrı", "Aksaray", "Amasya", "Ankara", "Antalya",
	"Ardahan", "Artvin", "Aydın", "Balıkesir", "Bartın", "Batman", "Bayburt", "Bilecik",
	"Bingöl", "Bitlis", "Bolu", "Burdur", "Bursa", "Çanakkale", "Çankırı", "Çorum",
	"Denizli", "Diyarbakır", "Düzce", "Edirne", "Elazığ", "Erzincan", "Erzurum", "Eskişehir",
	"Gaziantep", "Giresun", "Gümüşhane", "Hakkâri", "Hatay", "Iğdır", "Isparta", "İstanbul",
	"İzmir", "Kahramanmaraş", "Karabük", "Karaman", "Kars", "Kastamonu", "Kayseri", "Kilis",
	"Kırıkkale", "Kırklareli", "Kırşehir", "Kocaeli", "Konya", "Kütahya", "Malatya", "Manisa",
	"Mardin", "Mersin", "Muğla", "Muş", "Nevşehir", "Niğde", "Ordu", "Osmaniye",
	"Rize", "Sakarya", "Samsun", "Şanlıurfa", "Siirt", "Sinop", "Şırnak", "Sivas",
	"Tekirdağ", "Tokat", "Trabzon", "Tunceli", "Uşak", "Van", "Yalova", "Yozgat",
	"Zonguldak",
}

// IsProvince reports whether city is one of Provinces (exact match).
func IsProvince(city string) bool {
	for _, p := range Provinces {
		if p == city {
			return true
		}
	}
	return false
}
