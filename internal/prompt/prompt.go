// Package prompt turns validated requests into model instructions. Each use
// case owns one fixed template; field values are only substituted, never
// branched on.
package prompt

import (
	"bytes"
	"embed"
	"fmt"
	"path"
	"text/template"
)

//go:embed templates/*.md
var templatesFS embed.FS

// UseCase selects a prompt template.
type UseCase string

const (
	MealPlan UseCase = "meal-plan"
	Festival UseCase = "festival"
	Recipe   UseCase = "recipe"
)

var files = map[UseCase]string{
	MealPlan: "templates/meal_plan.md",
	Festival: "templates/festival.md",
	Recipe:   "templates/recipe.md",
}

var templates = mustParse()

func mustParse() map[UseCase]*template.Template {
	out := make(map[UseCase]*template.Template, len(files))
	for uc, name := range files {
		out[uc] = template.Must(
			template.New(path.Base(name)).Option("missingkey=error").ParseFS(templatesFS, name),
		)
	}
	return out
}

// Render substitutes data into the template for uc and appends the
// instruction to answer with JSON matching schemaName.
func Render(uc UseCase, data any, schemaName string) (string, error) {
	tmpl, ok := templates[uc]
	if !ok || tmpl == nil {
		return "", fmt.Errorf("prompt: unknown use case %q", uc)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("prompt: render %s: %w", uc, err)
	}

	buf.WriteString("\n")
	fmt.Fprintf(&buf, "Respond only with a JSON object matching the %s schema. Do not wrap it in markdown code blocks.\n", schemaName)
	return buf.String(), nil
}
