/*
Copyright 2025 Receipt Processing API Authors
SPDX-License-Identifier: Apache-2.0
*/

package evalrun

import (
	"encoding/json"
	"fmt"
)

// GraderKind selects one of the platform's testing-criterion types.
type GraderKind string

const (
	// StringCheck compares two rendered template strings with an
	// operation such as "eq".
	StringCheck GraderKind = "string_check"
	// TextSimilarity scores two strings with a similarity metric against
	// a pass threshold.
	TextSimilarity GraderKind = "text_similarity"
	// ScoreModel asks a grading model to score the sample within a range.
	ScoreModel GraderKind = "score_model"
)

// GraderMessage is one turn of a score-model grader's prompt.
type GraderMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Grader is one testing criterion. Fields are populated according to
// Kind; MarshalJSON emits the platform's wire shape, which omits fields
// that do not apply to the kind.
type Grader struct {
	Name string
	Kind GraderKind

	// String-check fields.
	Operation string
	Input     string
	Reference string

	// Text-similarity fields (Input and Reference are shared).
	Metric        string
	PassThreshold float64

	// Score-model fields.
	Model    string
	Messages []GraderMessage
	Range    [2]float64
}

// NewStringCheck builds an equality check between two item templates.
func NewStringCheck(name, input, reference string) Grader {
	return Grader{
		Name:      name,
		Kind:      StringCheck,
		Operation: "eq",
		Input:     input,
		Reference: reference,
	}
}

// NewTextSimilarity builds a similarity grader with the given metric and
// pass threshold.
func NewTextSimilarity(name, input, reference, metric string, passThreshold float64) Grader {
	return Grader{
		Name:          name,
		Kind:          TextSimilarity,
		Input:         input,
		Reference:     reference,
		Metric:        metric,
		PassThreshold: passThreshold,
	}
}

// NewScoreModel builds a model-scored grader over the given range.
func NewScoreModel(name, model, prompt string, scoreRange [2]float64, passThreshold float64) Grader {
	return Grader{
		Name:          name,
		Kind:          ScoreModel,
		Model:         model,
		Messages:      []GraderMessage{{Role: "system", Content: prompt}},
		Range:         scoreRange,
		PassThreshold: passThreshold,
	}
}

// Validate checks the grader is complete for its kind.
func (g Grader) Validate() error {
	if g.Name == "" {
		return fmt.Errorf("grader has no name")
	}
	switch g.Kind {
	case StringCheck:
		if g.Operation == "" || g.Input == "" || g.Reference == "" {
			return fmt.Errorf("string_check grader %q is incomplete", g.Name)
		}
	case TextSimilarity:
		if g.Input == "" || g.Reference == "" || g.Metric == "" {
			return fmt.Errorf("text_similarity grader %q is incomplete", g.Name)
		}
	case ScoreModel:
		if g.Model == "" || len(g.Messages) == 0 {
			return fmt.Errorf("score_model grader %q is incomplete", g.Name)
		}
	default:
		return fmt.Errorf("grader %q has unknown kind %q", g.Name, g.Kind)
	}
	return nil
}

// MarshalJSON emits the platform wire shape for the grader's kind.
func (g Grader) MarshalJSON() ([]byte, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	switch g.Kind {
	case StringCheck:
		return json.Marshal(map[string]any{
			"name":      g.Name,
			"type":      string(g.Kind),
			"operation": g.Operation,
			"input":     g.Input,
			"reference": g.Reference,
		})
	case TextSimilarity:
		return json.Marshal(map[string]any{
			"name":              g.Name,
			"type":              string(g.Kind),
			"input":             g.Input,
			"reference":         g.Reference,
			"evaluation_metric": g.Metric,
			"pass_threshold":    g.PassThreshold,
		})
	default:
		return json.Marshal(map[string]any{
			"name":           g.Name,
			"type":           string(g.Kind),
			"model":          g.Model,
			"input":          g.Messages,
			"range":          []float64{g.Range[0], g.Range[1]},
			"pass_threshold": g.PassThreshold,
		})
	}
}

// ExtractionGraders scores the scalar extraction fields.
func ExtractionGraders() []Grader {
	return []Grader{
		NewTextSimilarity("Merchant Name Accuracy",
			"{{ item.predicted_receipt_details.merchant }}",
			"{{ item.correct_receipt_details.merchant }}",
			"bleu", 0.8),
		NewStringCheck("Location City Accuracy",
			"{{ item.predicted_receipt_details.location.city }}",
			"{{ item.correct_receipt_details.location.city }}"),
		NewStringCheck("Location State Accuracy",
			"{{ item.predicted_receipt_details.location.state }}",
			"{{ item.correct_receipt_details.location.state }}"),
		NewStringCheck("Location Zipcode Accuracy",
			"{{ item.predicted_receipt_details.location.zipcode }}",
			"{{ item.correct_receipt_details.location.zipcode }}"),
		NewStringCheck("Time Accuracy",
			"{{ item.predicted_receipt_details.time }}",
			"{{ item.correct_receipt_details.time }}"),
		NewStringCheck("Subtotal Amount Accuracy",
			"{{ item.predicted_receipt_details.subtotal }}",
			"{{ item.correct_receipt_details.subtotal }}"),
		NewStringCheck("Tax Amount Accuracy",
			"{{ item.predicted_receipt_details.tax }}",
			"{{ item.correct_receipt_details.tax }}"),
		NewStringCheck("Total Amount Accuracy",
			"{{ item.predicted_receipt_details.total }}",
			"{{ item.correct_receipt_details.total }}"),
		NewTextSimilarity("Handwritten Notes Accuracy",
			"{{ item.predicted_receipt_details.handwritten_notes }}",
			"{{ item.correct_receipt_details.handwritten_notes }}",
			"fuzzy_match", 0.8),
	}
}

// ItemGraders scores line-item completeness and fidelity with a grading
// model.
func ItemGraders(model string) []Grader {
	return []Grader{
		NewScoreModel("Missed Line Items", model, missedItemsGrader, [2]float64{0, 1}, 1),
		NewScoreModel("Extra Line Items", model, extraItemsGrader, [2]float64{0, 1}, 1),
		NewScoreModel("Item Mistakes", model, itemMistakesGrader, [2]float64{0, 10}, 8),
	}
}

// AuditGraders scores the audit decision fields and the reasoning
// quality.
func AuditGraders(model string) []Grader {
	return []Grader{
		NewStringCheck("Not Travel Related Accuracy",
			"{{ item.predicted_audit_decision.not_travel_related }}",
			"{{ item.correct_audit_decision.not_travel_related }}"),
		NewStringCheck("Amount Over Limit Accuracy",
			"{{ item.predicted_audit_decision.amount_over_limit }}",
			"{{ item.correct_audit_decision.amount_over_limit }}"),
		NewStringCheck("Math Error Accuracy",
			"{{ item.predicted_audit_decision.math_error }}",
			"{{ item.correct_audit_decision.math_error }}"),
		NewStringCheck("Handwritten X Accuracy",
			"{{ item.predicted_audit_decision.handwritten_x }}",
			"{{ item.correct_audit_decision.handwritten_x }}"),
		NewStringCheck("Needs Audit Accuracy",
			"{{ item.predicted_audit_decision.needs_audit }}",
			"{{ item.correct_audit_decision.needs_audit }}"),
		NewScoreModel("Audit Reasoning Quality", model, auditReasoningGrader, [2]float64{0, 10}, 8),
	}
}

// defaultGraderModel scores model-judged criteria.
const defaultGraderModel = "gpt-4o-mini"

// GradersFor is the full catalog with the model-scored graders bound to
// the given grading model. An empty model selects defaultGraderModel.
func GradersFor(model string) []Grader {
	if model == "" {
		model = defaultGraderModel
	}
	graders := ExtractionGraders()
	graders = append(graders, ItemGraders(model)...)
	graders = append(graders, AuditGraders(model)...)
	return graders
}

// DefaultGraders is the full catalog: extraction fields, line items, and
// audit decisions.
func DefaultGraders() []Grader {
	return GradersFor(defaultGraderModel)
}
