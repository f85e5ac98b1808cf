package inference

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/core/model"
)

func TestInferLatin(t *testing.T) {
	got := New().Infer("Mercedes Actros 2645 tractor")
	assert.Equal(t, Inference{Make: "MERCEDES-BENZ", Model: "ACTROS"}, got)
}

func TestInferArabicHeavy(t *testing.T) {
	got := New().Infer("شاحنة ايسوزو NPR")
	assert.Equal(t, "ISUZU", got.Make)
	assert.Equal(t, "NPR", got.Model)
	assert.Equal(t, "HEAVY", got.Category)
}

func TestFirstMatchWinsPerField(t *testing.T) {
	// "howo" matches both the SINOTRUK make rule and the HOWO model rule.
	got := New().Infer("HOWO toyota")
	assert.Equal(t, "SINOTRUK", got.Make, "earlier make rule wins")
	assert.Equal(t, "HOWO", got.Model)
}

func TestInferEmpty(t *testing.T) {
	assert.Equal(t, Inference{}, New().Infer("   "))
	assert.Equal(t, Inference{}, New().Infer("white sedan"))
}

func TestCustomRules(t *testing.T) {
	c := New(NewRule(FieldMake, `kia`, "KIA"), NewRule(FieldCategory, `bus`, "BUS"))
	assert.Equal(t, Inference{Make: "KIA", Category: "BUS"}, c.Infer("Kia Granbird bus"))
}

func TestFillKeepsExistingValues(t *testing.T) {
	c := New()
	v := c.Fill(model.VehicleDescriptor{Make: "VOLVO", Description: "قلاب هيونداي"})
	assert.Equal(t, "VOLVO", v.Make)
	assert.Equal(t, "HEAVY", v.Category)
	assert.Empty(t, v.Model)

	untouched := model.VehicleDescriptor{Category: "LIGHT"}
	assert.Equal(t, untouched, c.Fill(untouched))
}

func TestDefaultRulesReturnsCopy(t *testing.T) {
	rules := DefaultRules()
	rules[0] = NewRule(FieldMake, `isuzu`, "CHANGED")
	assert.Equal(t, "ISUZU", New().Infer("isuzu npr").Make)
	assert.Equal(t, "ISUZU", DefaultRules()[0].Value)
}
