package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termfx/jsxlint/linter/ruletester"
	"github.com/termfx/jsxlint/rules"
)

func TestComponentNaming(t *testing.T) {
	ruletester.Run(t, rules.ComponentNaming{},
		[]ruletester.ValidCase{
			{Name: "arrow", Code: `const Button = () => <button />;`},
			{Name: "function", Code: "function Card() {\n  return <div />;\n}"},
			{Name: "ignored lowercase", Code: `const _internalComponent = () => <div />;`},
			{Name: "not markup", Code: `const helper = () => 42;`},
			{Name: "markup through a variable", Code: "function render() {\n  const el = <div />;\n  return el;\n}"},
			{
				Name:     "kebab filename",
				Filename: "src/button-group.tsx",
				Options:  map[string]any{"checkFilename": true},
				Code:     `export const ButtonGroup = () => <div />;`,
			},
			{
				Name:     "index file",
				Filename: "src/card/index.tsx",
				Options:  map[string]any{"checkFilename": true},
				Code:     `export function Card() { return <div />; }`,
			},
			{
				Name:     "nested component skips filename check",
				Filename: "card.tsx",
				Options:  map[string]any{"checkFilename": true},
				Code:     "function Card() {\n  const Inner = () => <span />;\n  return <div />;\n}",
			},
		},
		[]ruletester.InvalidCase{
			{
				Name:   "lower camel arrow",
				Code:   `const myButton = () => <button />;`,
				Errors: []ruletester.ExpectedError{{MessageID: "invalidName", Data: map[string]string{"name": "myButton"}, Line: 1, Column: 7}},
				Output: `const MyButton = () => <button />;`,
			},
			{
				Name:   "only the first letter is recased",
				Code:   "function mybutton() {\n  return <div />;\n}",
				Errors: []ruletester.ExpectedError{{MessageID: "invalidName", Data: map[string]string{"name": "mybutton"}}},
				Output: "function Mybutton() {\n  return <div />;\n}",
			},
			{
				Name:    "custom ignore pattern",
				Options: map[string]any{"ignorePattern": "^legacy"},
				Code:    "const legacyCard = () => <div />;\nconst card = () => <span />;",
				Errors:  []ruletester.ExpectedError{{MessageID: "invalidName", Data: map[string]string{"name": "card"}, Line: 2}},
				Output:  "const legacyCard = () => <div />;\nconst Card = () => <span />;",
			},
			{
				Name:   "no fix when recasing does not help",
				Code:   `const Bad_Name = () => <div />;`,
				Errors: []ruletester.ExpectedError{{MessageID: "invalidName", Data: map[string]string{"pattern": "^[A-Z][a-zA-Z0-9]*$"}}},
			},
			{
				Name:     "filename mismatch",
				Filename: "src/components/Card.tsx",
				Options:  map[string]any{"checkFilename": true},
				Code:     `export function PrimaryButton() { return <button />; }`,
				Errors: []ruletester.ExpectedError{{
					MessageID: "filenameMismatch",
					Data:      map[string]string{"name": "PrimaryButton", "expected": "primary-button", "filename": "Card"},
				}},
			},
		},
	)
}

func TestComponentNamingOptions(t *testing.T) {
	rule := rules.ComponentNaming{}

	_, err := rule.ParseOptions(nil)
	require.NoError(t, err)

	for name, raw := range map[string]map[string]any{
		"non-string pattern": {"pattern": 5},
		"bad regex":          {"pattern": "("},
		"bad ignore regex":   {"ignorePattern": "[a-"},
		"unknown key":        {"patern": "^A"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := rule.ParseOptions(raw)
			assert.ErrorIs(t, err, rules.ErrInvalidOptions)
		})
	}
}
