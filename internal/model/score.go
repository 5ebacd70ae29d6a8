package model

// Status is the terminal outcome of one analysis
type Status string

const (
	StatusAccepted Status = "ACCEPTED"
	StatusRejected Status = "REJECTED"
	StatusError    Status = "ERROR"
)

// MetricName identifies one of the seven judge metrics
type MetricName string

const (
	MetricIntentStrength MetricName = "Intent_Strength"
	MetricClarity        MetricName = "Clarity"
	MetricSpecificity    MetricName = "Specificity"
	MetricContext        MetricName = "Context"
	MetricConstraints    MetricName = "Constraints"
	MetricComplexity     MetricName = "Complexity"
	MetricRoleDefinition MetricName = "Role_Definition"
)

// AllMetrics lists the judge metrics in the order the judge is asked to emit them
var AllMetrics = []MetricName{
	MetricIntentStrength,
	MetricClarity,
	MetricSpecificity,
	MetricContext,
	MetricConstraints,
	MetricComplexity,
	MetricRoleDefinition,
}

// QualityMetrics are averaged into the LLM quality score.
// Role_Definition is also the boost signal.
var QualityMetrics = []MetricName{
	MetricClarity,
	MetricSpecificity,
	MetricContext,
	MetricConstraints,
	MetricComplexity,
	MetricRoleDefinition,
}

// GateResult is the outcome of the local heuristic checks
type GateResult struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason"`
}

// Metric is one extracted judge rating
type Metric struct {
	Value   float64 `json:"value"`
	Present bool    `json:"present"`
}

// MetricSet maps metric names to extracted ratings in [0,100]
type MetricSet map[MetricName]Metric

// Value returns the rating, or 0 when the judge did not report it
func (m MetricSet) Value(name MetricName) float64 {
	return m[name].Value
}

// Missing lists metrics absent from the judge output, in canonical order
func (m MetricSet) Missing() []MetricName {
	var missing []MetricName
	for _, name := range AllMetrics {
		if !m[name].Present {
			missing = append(missing, name)
		}
	}
	return missing
}

// Values flattens the set for JSON responses
func (m MetricSet) Values() map[string]float64 {
	out := make(map[string]float64, len(m))
	for name, metric := range m {
		out[string(name)] = metric.Value
	}
	return out
}

// ScoreResult is the terminal artifact of one analysis. It is never mutated
// after the pipeline returns it.
type ScoreResult struct {
	ID         string    `json:"id"`
	BertScore  float64   `json:"bert_score"`
	LLMScore   float64   `json:"llm_score"`
	FinalScore float64   `json:"final_score"`
	Status     Status    `json:"status"`
	Msg        string    `json:"msg,omitempty"`
	Metrics    MetricSet `json:"-"`
}
