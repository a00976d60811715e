package core_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/schooladmin/core"
)

type color string

func (c color) IsValid() bool    { return c == "red" || c == "blue" }
func (c color) Values() []string { return []string{"red", "blue"} }

type payload struct {
	Name   string              `json:"name" validate:"required"`
	Color  color               `json:"color" validate:"enum"`
	Shade  *color              `json:"shade" validate:"omitempty,enum"`
	Amount decimal.Decimal     `json:"amount" validate:"udecimal=10_2"`
	Marks  decimal.NullDecimal `json:"marks" validate:"omitempty,udecimal=5_2"`
	Note   null.String         `json:"note" validate:"omitempty,max=5"`
}

func validPayload() payload {
	return payload{Name: "x", Color: "red", Amount: decimal.RequireFromString("12.50")}
}

func TestValidator_Struct(t *testing.T) {
	v := core.NewValidator()
	green := color("green")

	tests := []struct {
		name      string
		mutate    func(p *payload)
		wantField string
	}{
		{name: "valid", mutate: func(p *payload) {}},
		{name: "missing name", mutate: func(p *payload) { p.Name = "" }, wantField: "name"},
		{name: "out of enum", mutate: func(p *payload) { p.Color = "green" }, wantField: "color"},
		{name: "nil nullable enum", mutate: func(p *payload) { p.Shade = nil }},
		{name: "nullable enum out of set", mutate: func(p *payload) { p.Shade = &green }, wantField: "shade"},
		{name: "too many decimals", mutate: func(p *payload) { p.Amount = decimal.RequireFromString("1.005") }, wantField: "amount"},
		{name: "trailing zeros are fine", mutate: func(p *payload) { p.Amount = decimal.RequireFromString("1.500") }},
		{name: "too many digits", mutate: func(p *payload) { p.Amount = decimal.RequireFromString("123456789.00") }, wantField: "amount"},
		{name: "max digits", mutate: func(p *payload) { p.Amount = decimal.RequireFromString("99999999.99") }},
		{name: "negative", mutate: func(p *payload) { p.Amount = decimal.RequireFromString("-1") }, wantField: "amount"},
		{name: "null decimal skipped", mutate: func(p *payload) { p.Marks = decimal.NullDecimal{} }},
		{name: "null decimal too large", mutate: func(p *payload) {
			p.Marks = decimal.NewNullDecimal(decimal.RequireFromString("1000"))
		}, wantField: "marks"},
		{name: "null string skipped", mutate: func(p *payload) { p.Note = null.String{} }},
		{name: "null string too long", mutate: func(p *payload) { p.Note = null.StringFrom("toolong") }, wantField: "note"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPayload()
			tt.mutate(&p)
			err := v.Struct(p)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Struct() unexpected error = %v", err)
				}
				return
			}
			vErr, ok := err.(*core.ValidationError)
			if !ok {
				t.Fatalf("Struct() error = %T(%v), want *core.ValidationError", err, err)
			}
			if len(vErr.Fields) != 1 || vErr.Fields[0].Field != tt.wantField {
				t.Errorf("Struct() fields = %+v, want one error on %q", vErr.Fields, tt.wantField)
			}
			if vErr.Fields[0].Error == "" {
				t.Error("Struct() field error not translated")
			}
		})
	}
}

func TestDecimalFits(t *testing.T) {
	tests := []struct {
		in               string
		precision, scale int
		want             bool
	}{
		{"0", 10, 2, true},
		{"0.01", 10, 2, true},
		{"0.001", 10, 2, false},
		{"100.00", 5, 2, true},
		{"1000.00", 5, 2, false},
		{"99.99", 5, 2, true},
		{"-99.99", 5, 2, true},
	}
	for _, tt := range tests {
		if got := core.DecimalFits(decimal.RequireFromString(tt.in), tt.precision, tt.scale); got != tt.want {
			t.Errorf("DecimalFits(%s, %d, %d) = %v, want %v", tt.in, tt.precision, tt.scale, got, tt.want)
		}
	}
}
