package yaml_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	goccyyaml "github.com/goccy/go-yaml"

	"github.com/foliolib/folio/pkg/yaml"
)

func mustBuildPath(t *testing.T, parts ...string) *goccyyaml.Path {
	t.Helper()

	pb := yaml.NewPathBuilder().Root()
	for _, part := range parts {
		pb = pb.Child(part)
	}

	return pb.Build()
}

func TestError_Error(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		want string
		err  yaml.Error
	}{
		"with path": {
			err: yaml.Error{
				Err:  errors.New("value is required"),
				Path: mustBuildPath(t, "ui", "theme"),
			},
			want: "error at $.ui.theme: value is required",
		},
		"without path": {
			err: yaml.Error{
				Err: errors.New("validation error: value is required"),
			},
			want: "validation error: value is required",
		},
		"empty detail": {
			err: yaml.Error{
				Err:  errors.New(""),
				Path: mustBuildPath(t, "catalog"),
			},
			want: "error at $.catalog: ",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got := tc.err.Error()
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNewValidator(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		errMsg     string
		schemaData []byte
		wantErr    bool
	}{
		"valid schema": {
			schemaData: []byte(`{
				"type": "object",
				"properties": {
					"name": {"type": "string"},
					"limit": {"type": "number"}
				},
				"required": ["name"]
			}`),
			wantErr: false,
		},
		"invalid json": {
			schemaData: []byte(`{"invalid": json}`),
			wantErr:    true,
			errMsg:     "unmarshal schema",
		},
		"invalid schema": {
			schemaData: []byte(`{"type": "invalid_type"}`),
			wantErr:    true,
			errMsg:     "compile schema",
		},
		"empty schema": {
			schemaData: []byte(`{}`),
			wantErr:    false,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			validator, err := yaml.NewValidator("test", tc.schemaData)

			if tc.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.errMsg)
				assert.Nil(t, validator)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, validator)
			}
		})
	}
}

func TestValidator_Validate(t *testing.T) {
	t.Parallel()

	schemaData := []byte(`{
		"type": "object",
		"properties": {
			"name": {"type": "string"},
			"limit": {"type": "number"},
			"tags": {
				"type": "array",
				"items": {"type": "string"}
			},
			"filter": {
				"type": "object",
				"properties": {
					"expr": {"type": "string"}
				},
				"required": ["expr"]
			},
			"books": {
				"type": "array",
				"items": {
					"type": "object",
					"properties": {
						"year": {"type": "number"},
						"title": {"type": "string"},
						"author": {
							"type": "object",
							"properties": {
								"firstName": {"type": "string"},
								"lastName": {"type": "string"},
								"aliases": {
									"type": "array",
									"items": {"type": "string"}
								}
							},
							"required": ["firstName", "lastName"]
						}
					},
					"required": ["year", "title", "author"]
				}
			},
			"ratings": {
				"type": "array",
				"items": {
					"type": "array",
					"items": {"type": "number"}
				}
			}
		},
		"required": ["name"]
	}`)

	validator, err := yaml.NewValidator("test", schemaData)
	require.NoError(t, err)

	tcs := map[string]struct {
		data         any
		expectedPath string
		wantErr      bool
	}{
		"valid data": {
			data: map[string]any{
				"name":  "classics",
				"limit": 12,
			},
			wantErr: false,
		},
		"missing required field": {
			data: map[string]any{
				"limit": 12,
			},
			wantErr:      true,
			expectedPath: "$",
		},
		"wrong type for name": {
			data: map[string]any{
				"name":  123,
				"limit": 12,
			},
			wantErr:      true,
			expectedPath: "$.name",
		},
		"wrong type for limit": {
			data: map[string]any{
				"name":  "classics",
				"limit": "twelve",
			},
			wantErr:      true,
			expectedPath: "$.limit",
		},
		"invalid array item": {
			data: map[string]any{
				"name": "classics",
				"tags": []any{"fiction", 123, "classic"},
			},
			wantErr:      true,
			expectedPath: "$.tags[1]",
		},
		"nested object validation error": {
			data: map[string]any{
				"name": "classics",
				"filter": map[string]any{
					"notExpr": "something",
				},
			},
			wantErr:      true,
			expectedPath: "$.filter",
		},
		"valid array of objects": {
			data: map[string]any{
				"name": "classics",
				"books": []any{
					map[string]any{
						"year":  1815,
						"title": "Emma",
						"author": map[string]any{
							"firstName": "Jane",
							"lastName":  "Austen",
						},
					},
					map[string]any{
						"year":  1969,
						"title": "The Left Hand of Darkness",
						"author": map[string]any{
							"firstName": "Ursula",
							"lastName":  "Le Guin",
							"aliases":   []any{"Ursula K. Le Guin"},
						},
					},
				},
			},
			wantErr: false,
		},
		"invalid object in array": {
			data: map[string]any{
				"name": "classics",
				"books": []any{
					map[string]any{
						"year":  1815,
						"title": "Emma",
						"author": map[string]any{
							"firstName": "Jane",
							"lastName":  "Austen",
						},
					},
					map[string]any{
						"year":  "invalid", // should be number
						"title": "Persuasion",
						"author": map[string]any{
							"firstName": "Jane",
							"lastName":  "Austen",
						},
					},
				},
			},
			wantErr:      true,
			expectedPath: "$.books[1].year",
		},
		"missing required field in nested object within array": {
			data: map[string]any{
				"name": "classics",
				"books": []any{
					map[string]any{
						"year":  1815,
						"title": "Emma",
						"author": map[string]any{
							"firstName": "Jane",
							// missing lastName
						},
					},
				},
			},
			wantErr:      true,
			expectedPath: "$.books[0].author",
		},
		"invalid alias in deeply nested array": {
			data: map[string]any{
				"name": "classics",
				"books": []any{
					map[string]any{
						"year":  1969,
						"title": "The Left Hand of Darkness",
						"author": map[string]any{
							"firstName": "Ursula",
							"lastName":  "Le Guin",
							"aliases": []any{
								"Ursula K. Le Guin",
								123, // should be string
							},
						},
					},
				},
			},
			wantErr:      true,
			expectedPath: "$.books[0].author.aliases[1]",
		},
		"valid ratings matrix": {
			data: map[string]any{
				"name": "classics",
				"ratings": []any{
					[]any{4, 5, 3},
					[]any{5, 5, 4},
				},
			},
			wantErr: false,
		},
		"invalid element in ratings matrix": {
			data: map[string]any{
				"name": "classics",
				"ratings": []any{
					[]any{4, 5, 3},
					[]any{5, "invalid", 4}, // should be number
				},
			},
			wantErr:      true,
			expectedPath: "$.ratings[1][1]",
		},
		"missing title in second book": {
			data: map[string]any{
				"name": "classics",
				"books": []any{
					map[string]any{
						"year":  1815,
						"title": "Emma",
						"author": map[string]any{
							"firstName": "Jane",
							"lastName":  "Austen",
						},
					},
					map[string]any{
						"year": 1817,
						// missing title
						"author": map[string]any{
							"firstName": "Jane",
							"lastName":  "Austen",
						},
					},
				},
			},
			wantErr:      true,
			expectedPath: "$.books[1]",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := validator.Validate(tc.data)

			if tc.wantErr {
				require.Error(t, err)

				var validationErr *yaml.Error
				require.ErrorAs(t, err, &validationErr)
				assert.NotNil(t, validationErr.Path)
				assert.Equal(t, tc.expectedPath, validationErr.Path.String())
			} else {
				require.NoError(t, err)
			}
		})
	}
}
