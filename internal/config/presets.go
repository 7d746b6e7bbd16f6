package config

import "strings"

// Example is a ready-made integrand with suggested bounds.
type Example struct {
	Name string  `yaml:"name" json:"name"`
	Expr string  `yaml:"expr" json:"expr"`
	A    float64 `yaml:"a" json:"a"`
	B    float64 `yaml:"b" json:"b"`
}

var Examples = []Example{
	{Name: "x²", Expr: "x^2", A: 0, B: 2},
	{Name: "sin(x)", Expr: "sin(x)", A: 0, B: 3.14159},
	{Name: "eˣ", Expr: "exp(x)", A: 0, B: 1},
	{Name: "1/x", Expr: "1/x", A: 1, B: 3},
	{Name: "√x", Expr: "sqrt(x)", A: 0, B: 4},
	{Name: "x³-2x²+x", Expr: "x^3 - 2*x^2 + x", A: -1, B: 3},
}

// FindExample matches by display name or expression text.
func FindExample(examples []Example, key string) (Example, bool) {
	key = strings.TrimSpace(key)
	for _, ex := range examples {
		if ex.Name == key || ex.Expr == key {
			return ex, true
		}
	}
	return Example{}, false
}
