// SPDX-License-Identifier: Apache-2.0

// Package unittest implements the Test Runner: per-function YAML test-case
// parsing and nested-savepoint execution against an open transaction.
package unittest

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	sigsyaml "sigs.k8s.io/yaml"
)

// SideEffect is the optional post-condition a test case may assert, checked
// after the test query runs successfully.
type SideEffect struct {
	TableQuery           string              `json:"table_query"`
	ExpectedQueryResults []map[string]string `json:"expected_query_results"`
}

// TestCase is one entry in a function's unit_tests/*.yaml file.
type TestCase struct {
	Name               string              `json:"name"`
	Query              string              `json:"query"`
	ExpectedOutput     []map[string]string `json:"expected_output,omitempty"`
	ExpectedSideEffect *SideEffect         `json:"expected_side_effect,omitempty"`
}

const testCaseSchemaJSON = `{
	"type": "array",
	"minItems": 1,
	"items": {
		"type": "object",
		"required": ["name", "query"],
		"properties": {
			"name": {"type": "string"},
			"query": {"type": "string"},
			"expected_output": {
				"type": ["array", "null"],
				"items": {"type": "object", "additionalProperties": {"type": "string"}}
			},
			"expected_side_effect": {
				"type": ["object", "null"],
				"required": ["table_query", "expected_query_results"],
				"properties": {
					"table_query": {"type": "string"},
					"expected_query_results": {
						"type": "array",
						"items": {"type": "object", "additionalProperties": {"type": "string"}}
					}
				}
			}
		}
	}
}`

var testCaseSchema = compileTestCaseSchema()

func compileTestCaseSchema() *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(testCaseSchemaJSON))
	if err != nil {
		panic(fmt.Sprintf("unittest: invalid embedded schema: %v", err))
	}
	if err := c.AddResource("tusk://unit-test-case.json", doc); err != nil {
		panic(fmt.Sprintf("unittest: adding embedded schema: %v", err))
	}
	schema, err := c.Compile("tusk://unit-test-case.json")
	if err != nil {
		panic(fmt.Sprintf("unittest: compiling embedded schema: %v", err))
	}
	return schema
}

// LoadFile parses a unit_tests/*.yaml or *.yml file into its list of test
// cases, validating shape against the embedded JSON schema. An empty file
// (zero test cases) is an error.
func LoadFile(path string) ([]TestCase, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading test file %s: %w", path, err)
	}

	asJSON, err := sigsyaml.YAMLToJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing test file %s: %w", path, err)
	}

	var instance any
	if err := json.Unmarshal(asJSON, &instance); err != nil {
		return nil, fmt.Errorf("parsing test file %s: %w", path, err)
	}

	if err := testCaseSchema.Validate(instance); err != nil {
		return nil, fmt.Errorf("test file %s does not match the expected shape: %w", path, err)
	}

	var cases []TestCase
	if err := json.Unmarshal(asJSON, &cases); err != nil {
		return nil, fmt.Errorf("decoding test file %s: %w", path, err)
	}

	if len(cases) == 0 {
		return nil, fmt.Errorf("test file %s must define at least one test case", path)
	}

	return cases, nil
}
