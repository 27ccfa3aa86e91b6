package llm

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"github.com/xeipuuv/gojsonschema"

	"github.com/MayankD409/Resume-Personalizer/pkg/projects"
	"github.com/MayankD409/Resume-Personalizer/pkg/rewrite"
)

// Schema names used in validation errors and format hints.
const (
	SchemaProjects = "project_selection"
	SchemaRewrite  = "rewrite"
)

const projectSelectionSchema = `{
  "type": "object",
  "required": ["include_projects", "exclude_projects"],
  "properties": {
    "include_projects": {"type": "array", "items": {"type": "string"}},
    "exclude_projects": {"type": "array", "items": {"type": "string"}}
  }
}`

const rewriteSchema = `{
  "type": "object",
  "required": ["bullets", "skills_block"],
  "properties": {
    "bullets": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["old", "new"],
        "properties": {
          "old": {"type": "string"},
          "new": {"type": "string"}
        }
      }
    },
    "skills_block": {"type": "string"}
  }
}`

// ValidationError reports why an AI response could not be used.
type ValidationError struct {
	Schema   string
	Problems []string
}

func (e *ValidationError) Error() (msg string) {
	msg = fmt.Sprintf("invalid %s response: %s", e.Schema, strings.Join(e.Problems, "; "))
	return msg
}

// ValidateProjects checks a Pass 1 response. A list delivered as a JSON-encoded string is
// decoded in place.
func ValidateProjects(raw string) (sel projects.Selection, err error) {
	if !gjson.Valid(raw) {
		err = &ValidationError{Schema: SchemaProjects, Problems: []string{"response is not valid JSON"}}
		return sel, err
	}

	problems := make([]string, 0)
	for _, key := range []string{"include_projects", "exclude_projects"} {
		if !gjson.Get(raw, key).Exists() {
			problems = append(problems, fmt.Sprintf("missing required field '%s'", key))
			continue
		}
		raw, err = coerceStringArray(raw, key)
		if err != nil {
			return sel, err
		}
	}
	if len(problems) > 0 {
		err = &ValidationError{Schema: SchemaProjects, Problems: problems}
		return sel, err
	}

	err = checkSchema(SchemaProjects, projectSelectionSchema, raw)
	if err != nil {
		return sel, err
	}

	err = json.Unmarshal([]byte(raw), &sel)
	if err != nil {
		err = errors.Wrap(err, "failed to decode project selection")
		return sel, err
	}

	return sel, err
}

// ValidateRewrite checks a Pass 2 response. Malformed bullets are dropped rather than failing the
// response, a scalar skills block is turned into a string, and the skills line is repaired.
func ValidateRewrite(raw string) (resp RewriteResponse, err error) {
	if !gjson.Valid(raw) {
		err = &ValidationError{Schema: SchemaRewrite, Problems: []string{"response is not valid JSON"}}
		return resp, err
	}

	problems := make([]string, 0)
	for _, key := range []string{"bullets", "skills_block"} {
		if !gjson.Get(raw, key).Exists() {
			problems = append(problems, fmt.Sprintf("missing required field '%s'", key))
		}
	}
	if len(problems) > 0 {
		err = &ValidationError{Schema: SchemaRewrite, Problems: problems}
		return resp, err
	}

	raw, err = coerceStringArray(raw, "bullets")
	if err != nil {
		return resp, err
	}

	skills := gjson.Get(raw, "skills_block")
	switch skills.Type {
	case gjson.Number, gjson.True, gjson.False:
		raw, err = sjson.Set(raw, "skills_block", skills.String())
		if err != nil {
			err = errors.Wrap(err, "failed to convert skills_block")
			return resp, err
		}
		slog.Warn("Converted field 'skills_block' to string")
	}

	raw, err = dropMalformedBullets(raw)
	if err != nil {
		return resp, err
	}

	err = checkSchema(SchemaRewrite, rewriteSchema, raw)
	if err != nil {
		return resp, err
	}

	err = json.Unmarshal([]byte(raw), &resp)
	if err != nil {
		err = errors.Wrap(err, "failed to decode rewrite response")
		return resp, err
	}

	if repaired, ok := RepairSkills(resp.SkillsBlock); ok {
		slog.Warn("Skills block doesn't start with expected format, repaired", "skills", repaired)
		resp.SkillsBlock = repaired
	}
	if resp.Bullets == nil {
		resp.Bullets = []rewrite.Pair{}
	}

	return resp, err
}

// coerceStringArray replaces a string field holding a JSON array with the array itself.
func coerceStringArray(raw, key string) (out string, err error) {
	out = raw
	field := gjson.Get(raw, key)
	if field.Type != gjson.String {
		return out, err
	}

	if !gjson.Valid(field.Str) || !gjson.Parse(field.Str).IsArray() {
		err = &ValidationError{
			Schema:   schemaFor(key),
			Problems: []string{fmt.Sprintf("field '%s' has incorrect type, expected list", key)},
		}
		return out, err
	}

	out, err = sjson.SetRaw(raw, key, field.Str)
	if err != nil {
		err = errors.Wrapf(err, "failed to convert field '%s'", key)
		return out, err
	}
	slog.Warn("Converted field to list", "field", key)

	return out, err
}

// dropMalformedBullets keeps only bullets that are objects with string old and new fields.
func dropMalformedBullets(raw string) (out string, err error) {
	out = raw
	bullets := gjson.Get(raw, "bullets")
	if !bullets.IsArray() {
		return out, err
	}

	kept := make([]string, 0)
	for i, b := range bullets.Array() {
		switch {
		case !b.IsObject():
			slog.Warn("Bullet is not an object, skipping", "index", i)
		case !b.Get("old").Exists() || !b.Get("new").Exists():
			slog.Warn("Bullet missing required fields, skipping", "index", i)
		case b.Get("old").Type != gjson.String || b.Get("new").Type != gjson.String:
			slog.Warn("Bullet field has wrong type, skipping", "index", i)
		default:
			kept = append(kept, b.Raw)
		}
	}

	out, err = sjson.SetRaw(raw, "bullets", "["+strings.Join(kept, ",")+"]")
	if err != nil {
		err = errors.Wrap(err, "failed to filter bullets")
		return out, err
	}

	return out, err
}

// checkSchema validates doc against a JSON schema and turns failures into a ValidationError.
func checkSchema(name, schema, doc string) (err error) {
	var result *gojsonschema.Result
	result, err = gojsonschema.Validate(gojsonschema.NewStringLoader(schema), gojsonschema.NewStringLoader(doc))
	if err != nil {
		err = errors.Wrapf(err, "failed to validate %s response", name)
		return err
	}

	if result.Valid() {
		return err
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		problems = append(problems, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
	}
	err = &ValidationError{Schema: name, Problems: problems}

	return err
}

func schemaFor(key string) (name string) {
	name = SchemaRewrite
	if strings.HasSuffix(key, "_projects") {
		name = SchemaProjects
	}
	return name
}
