// Package inference fills missing make, model and category values from a
// free-text vehicle description. The classifier is a table of tagged
// pattern rules; for each field the first matching rule wins.
package inference

import (
	"regexp"
	"slices"
	"strings"

	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/core/model"
)

// Field names a VehicleDescriptor attribute a rule can populate.
type Field string

const (
	FieldMake     Field = "make"
	FieldModel    Field = "model"
	FieldCategory Field = "category"
)

// Rule sets Field to Value when Pattern matches the description.
type Rule struct {
	Field   Field
	Pattern *regexp.Regexp
	Value   string
}

// NewRule compiles a case-insensitive pattern.
func NewRule(field Field, pattern, value string) Rule {
	return Rule{Field: field, Pattern: regexp.MustCompile(`(?i)` + pattern), Value: value}
}

// heavyBodies lists Arabic body types of heavy equipment: tipper, truck,
// dyna, trailer, tractor head, six-wheeler, equipment, excavator, crane, bus.
const heavyBodies = `قلاب|شاحنة|دينا|تريلا|تريله|رأس|راس|قاطرة|سكس|معدات|حفار|ونش|باص|اتوبيس`

// defaultRules is the built-in table, ordered by priority within a field.
var defaultRules = []Rule{
	NewRule(FieldMake, `ايسوزو|isuzu`, "ISUZU"),
	NewRule(FieldMake, `مرسيدس|mercedes|m-?benz`, "MERCEDES-BENZ"),
	NewRule(FieldMake, `شاكمان|shacman`, "SHACMAN"),
	NewRule(FieldMake, `سينوتراك|sinotruk|howo`, "SINOTRUK"),
	NewRule(FieldMake, `تويوتا|toyota`, "TOYOTA"),
	NewRule(FieldMake, `هيونداي|hyundai`, "HYUNDAI"),

	NewRule(FieldModel, `actros`, "ACTROS"),
	NewRule(FieldModel, `npr`, "NPR"),
	NewRule(FieldModel, `x3000`, "X3000"),
	NewRule(FieldModel, `howo`, "HOWO"),
	NewRule(FieldModel, `camry`, "CAMRY"),
	NewRule(FieldModel, `staria`, "STARIA"),

	NewRule(FieldCategory, heavyBodies, "HEAVY"),
}

// DefaultRules returns a copy of the built-in table.
func DefaultRules() []Rule {
	return slices.Clone(defaultRules)
}

// Inference is the classifier output. Empty strings mean "not detected".
type Inference struct {
	Make     string
	Model    string
	Category string
}

// Classifier evaluates a rule table against descriptions.
type Classifier struct {
	rules []Rule
}

// New returns a Classifier over rules, or the built-in table when none are
// given.
func New(rules ...Rule) *Classifier {
	if len(rules) == 0 {
		return &Classifier{rules: DefaultRules()}
	}
	return &Classifier{rules: slices.Clone(rules)}
}

// Infer classifies desc.
func (c *Classifier) Infer(desc string) Inference {
	var out Inference
	d := strings.TrimSpace(desc)
	if d == "" {
		return out
	}
	for _, r := range c.rules {
		slot := out.slot(r.Field)
		if slot == nil || *slot != "" {
			continue
		}
		if r.Pattern.MatchString(d) {
			*slot = r.Value
		}
	}
	return out
}

func (i *Inference) slot(f Field) *string {
	switch f {
	case FieldMake:
		return &i.Make
	case FieldModel:
		return &i.Model
	case FieldCategory:
		return &i.Category
	default:
		return nil
	}
}

// Fill returns v with empty make, model and category taken from its
// description. Values already present are kept.
func (c *Classifier) Fill(v model.VehicleDescriptor) model.VehicleDescriptor {
	if strings.TrimSpace(v.Description) == "" {
		return v
	}
	if v.Make != "" && v.Model != "" && v.Category != "" {
		return v
	}
	inf := c.Infer(v.Description)
	if v.Make == "" {
		v.Make = inf.Make
	}
	if v.Model == "" {
		v.Model = inf.Model
	}
	if v.Category == "" {
		v.Category = inf.Category
	}
	return v
}
