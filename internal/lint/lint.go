// Package lint evaluates a structural lint policy, written in Rego, over a
// netlist's vertex and edge facts: undriven outputs, unread inputs, and
// width mismatches across an edge.
package lint

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"

	"github.com/open-policy-agent/opa/rego"
)

//go:embed policy.rego
var policyFS embed.FS

// VertexFact is one row of the vertex facts the policy evaluates over.
type VertexFact struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	Direction   string `json:"direction"`
	IsTopSignal bool   `json:"isTopSignal"`
	Width       int    `json:"width"`
	InDegree    int    `json:"inDegree"`
	OutDegree   int    `json:"outDegree"`
}

// EdgeFact is one row of the edge facts the policy evaluates over.
type EdgeFact struct {
	Src      int `json:"src"`
	Dst      int `json:"dst"`
	SrcWidth int `json:"srcWidth"`
	DstWidth int `json:"dstWidth"`
}

// Input is the data structure passed to OPA.
type Input struct {
	Vertices []VertexFact `json:"vertices"`
	Edges    []EdgeFact   `json:"edges"`
}

// Violation is one rule violation found by the policy.
type Violation struct {
	Rule     string `json:"rule"`
	Severity string `json:"severity"`
	Vertex   string `json:"vertex"`
	Message  string `json:"message"`
}

// Result is the full outcome of one Evaluate call.
type Result struct {
	Violations []Violation
	Summary    Summary
}

// Summary gives aggregate counts over Result.Violations.
type Summary struct {
	TotalViolations int `json:"total_violations"`
	Errors          int `json:"errors"`
	Warnings        int `json:"warnings"`
}

// Engine evaluates the embedded policy against netlist facts.
type Engine struct {
	queries map[string]rego.PreparedEvalQuery
}

// New loads and prepares the embedded Rego policy.
func New() (*Engine, error) {
	content, err := policyFS.ReadFile("policy.rego")
	if err != nil {
		return nil, fmt.Errorf("reading embedded policy: %w", err)
	}
	module := rego.Module("policy.rego", string(content))

	engine := &Engine{queries: make(map[string]rego.PreparedEvalQuery)}

	violations, err := rego.New(module, rego.Query("data.netlistpaths.lint.all_violations")).PrepareForEval(context.Background())
	if err != nil {
		return nil, fmt.Errorf("preparing violations query: %w", err)
	}
	engine.queries["violations"] = violations

	summary, err := rego.New(module, rego.Query("data.netlistpaths.lint.summary")).PrepareForEval(context.Background())
	if err != nil {
		return nil, fmt.Errorf("preparing summary query: %w", err)
	}
	engine.queries["summary"] = summary

	return engine, nil
}

// Evaluate runs the policy against input and returns its violations and
// summary.
func (e *Engine) Evaluate(input Input) (*Result, error) {
	ctx := context.Background()

	inputMap, err := structToMap(input)
	if err != nil {
		return nil, fmt.Errorf("converting input: %w", err)
	}

	result := &Result{}

	rs, err := e.queries["violations"].Eval(ctx, rego.EvalInput(inputMap))
	if err != nil {
		return nil, fmt.Errorf("evaluating violations: %w", err)
	}
	if len(rs) > 0 && len(rs[0].Expressions) > 0 {
		if violations, ok := rs[0].Expressions[0].Value.([]interface{}); ok {
			for _, v := range violations {
				vmap, ok := v.(map[string]interface{})
				if !ok {
					continue
				}
				result.Violations = append(result.Violations, Violation{
					Rule:     getString(vmap, "rule"),
					Severity: getString(vmap, "severity"),
					Vertex:   getString(vmap, "vertex"),
					Message:  getString(vmap, "message"),
				})
			}
		}
	}

	rs, err = e.queries["summary"].Eval(ctx, rego.EvalInput(inputMap))
	if err != nil {
		return nil, fmt.Errorf("evaluating summary: %w", err)
	}
	if len(rs) > 0 && len(rs[0].Expressions) > 0 {
		if smap, ok := rs[0].Expressions[0].Value.(map[string]interface{}); ok {
			result.Summary = Summary{
				TotalViolations: getInt(smap, "total_violations"),
				Errors:          getInt(smap, "errors"),
				Warnings:        getInt(smap, "warnings"),
			}
		}
	}

	return result, nil
}

func structToMap(v interface{}) (map[string]interface{}, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var result map[string]interface{}
	err = json.Unmarshal(data, &result)
	return result, err
}

func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func getInt(m map[string]interface{}, key string) int {
	if v, ok := m[key]; ok {
		switch n := v.(type) {
		case int:
			return n
		case float64:
			return int(n)
		case json.Number:
			i, _ := n.Int64()
			return int(i)
		}
	}
	return 0
}
