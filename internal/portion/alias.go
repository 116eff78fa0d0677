package portion

// AliasTable maps normalised free-text names to canonical catalog descriptions.
type AliasTable struct {
	entries map[string]string
}

// defaultAliases covers names that search and meal entry commonly produce
// but that do not match the bundled dataset's descriptions.
var defaultAliases = map[string]string{
	"cooked white rice": "Rice, white, cooked",
	"white rice":        "Rice, white, cooked",
	"rice":              "Rice, white, cooked",
	"rice cooked":       "Rice, white, cooked",
	"brown rice":        "Rice, brown, cooked",
	"cooked brown rice": "Rice, brown, cooked",
	"apple":             "Apple, raw",
	"banana":            "Banana, raw",
	"white bread":       "Bread, white",
	"whole wheat bread": "Bread, whole wheat",
	"pasta":             "Pasta, cooked",
	"spaghetti":         "Pasta, cooked",
	"oatmeal":           "Oats, cooked",
	"porridge":          "Oats, cooked",
	"potato":            "Potato, baked",
	"baked potato":      "Potato, baked",
	"chicken breast":    "Chicken breast, roasted",
	"egg":               "Egg, boiled",
	"boiled egg":        "Egg, boiled",
	"milk":              "Milk, whole",
	"orange juice":      "Orange juice",
	"oj":                "Orange juice",
}

// NewAliasTable builds a table from raw name → description pairs. Keys are
// normalised with NormalizeName so callers may use any spelling.
func NewAliasTable(aliases map[string]string) *AliasTable {
	t := &AliasTable{entries: make(map[string]string, len(aliases))}
	for k, v := range aliases {
		t.entries[NormalizeName(k)] = v
	}
	return t
}

// DefaultAliasTable returns the built-in alias table.
func DefaultAliasTable() *AliasTable {
	return NewAliasTable(defaultAliases)
}

// Canonical returns the catalog description registered for name.
func (t *AliasTable) Canonical(name string) (string, bool) {
	if t == nil {
		return "", false
	}
	v, ok := t.entries[NormalizeName(name)]
	return v, ok
}

// Len returns the number of aliases.
func (t *AliasTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}
