package types

// DefaultModel is used whenever a request omits the model or sends an empty one.
const DefaultModel = "default"

// Fixed validation messages, one per endpoint.
const (
	MsgNoDataset           = "No dataset provided"
	MsgQueryAndDataset     = "Query and dataset are required"
	MsgDatasetAndTarget    = "Dataset and target are required"
	MsgEndpointNotFound    = "Endpoint not found"
	MsgMethodNotAllowed    = "Method not allowed"
	MsgInternalServerError = "Internal server error"
	MsgTooManyRequests     = "Too many requests"
)

// ValidationError reports a missing or unusable request field. It is an
// expected client mistake and maps to 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// StatusCode implements the HTTP layer's status mapping.
func (e *ValidationError) StatusCode() int { return 400 }

func invalid(msg string) error { return &ValidationError{Message: msg} }

func modelOrDefault(m string) string {
	if m == "" {
		return DefaultModel
	}
	return m
}

func paramsOrEmpty(p map[string]any) map[string]any {
	if p == nil {
		return map[string]any{}
	}
	return p
}

// AnalyzeRequest is the payload of POST /api/analyze.
type AnalyzeRequest struct {
	// Dataset to analyze: an array of records, an array of values or an object of columns.
	Dataset Value `json:"dataset" swaggertype:"object"`
	// Optional insight model. Defaults to "default".
	// example: default
	Model string `json:"model,omitempty" example:"default"`
	// Optional model parameters (z_threshold, min_correlation, top_k).
	Params map[string]any `json:"params,omitempty"`
}

// Validate requires a present, non-empty dataset.
func (r AnalyzeRequest) Validate() error {
	if !r.Dataset.Truthy() {
		return invalid(MsgNoDataset)
	}
	return nil
}

// ModelName returns the requested model or DefaultModel.
func (r AnalyzeRequest) ModelName() string { return modelOrDefault(r.Model) }

// ParamsOrEmpty never returns nil.
func (r AnalyzeRequest) ParamsOrEmpty() map[string]any { return paramsOrEmpty(r.Params) }

// QueryRequest is the payload of POST /api/query.
type QueryRequest struct {
	// Natural-language question about the dataset.
	// example: average sales by region
	Query *string `json:"query" example:"average sales by region"`
	// Dataset the question refers to.
	Dataset Value `json:"dataset" swaggertype:"object"`
	// Optional query model. Defaults to "default".
	// example: default
	Model string `json:"model,omitempty" example:"default"`
}

// Validate requires both the query and the dataset keys.
func (r QueryRequest) Validate() error {
	if r.Query == nil || !r.Dataset.Present() {
		return invalid(MsgQueryAndDataset)
	}
	return nil
}

// ModelName returns the requested model or DefaultModel.
func (r QueryRequest) ModelName() string { return modelOrDefault(r.Model) }

// PredictRequest is the payload of POST /api/predict.
type PredictRequest struct {
	// Dataset of records. Rows whose target is null or missing are predicted.
	Dataset Value `json:"dataset" swaggertype:"object"`
	// Target column to predict.
	// example: revenue
	Target *string `json:"target" example:"revenue"`
	// Optional feature columns. Defaults to every numeric column except the target.
	// example: ["units","price"]
	Features []string `json:"features,omitempty" example:"units,price"`
	// Optional prediction model. Defaults to "default".
	// example: linear_regression
	Model string `json:"model,omitempty" example:"linear_regression"`
	// Optional model parameters (ridge).
	Params map[string]any `json:"params,omitempty"`
}

// Validate requires both the dataset and the target keys.
func (r PredictRequest) Validate() error {
	if !r.Dataset.Present() || r.Target == nil {
		return invalid(MsgDatasetAndTarget)
	}
	return nil
}

// Input converts a validated request into the model manager's input,
// applying the documented defaults.
func (r PredictRequest) Input() PredictionInput {
	in := PredictionInput{
		Dataset:  r.Dataset,
		Features: r.Features,
		Model:    modelOrDefault(r.Model),
		Params:   paramsOrEmpty(r.Params),
	}
	if r.Target != nil {
		in.Target = *r.Target
	}
	if in.Features == nil {
		in.Features = []string{}
	}
	return in
}

// PredictionInput carries a prediction call to the model manager.
type PredictionInput struct {
	Dataset  Value
	Target   string
	Features []string
	Model    string
	Params   map[string]any
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	// example: ok
	Status string `json:"status" example:"ok"`
	// example: 1.0.0
	Version string `json:"version" example:"1.0.0"`
	// Names of the models currently loaded.
	// example: ["default","linear_regression"]
	ModelsLoaded []string `json:"models_loaded"`
}

// AnalyzeMetadata accompanies analysis insights.
type AnalyzeMetadata struct {
	// Length of the submitted dataset collection.
	// example: 120
	DatasetSize int `json:"dataset_size" example:"120"`
	// Seconds spent by the data processor.
	// example: 0.004
	ProcessingTime float64 `json:"processing_time" example:"0.004"`
	// example: default
	ModelUsed string `json:"model_used" example:"default"`
}

// AnalyzeResponse is returned by POST /api/analyze.
type AnalyzeResponse struct {
	Insights Result          `json:"insights"`
	Metadata AnalyzeMetadata `json:"metadata"`
}

// QueryMetadata accompanies a query result.
type QueryMetadata struct {
	// example: average sales by region
	Query string `json:"query" example:"average sales by region"`
	// example: default
	ModelUsed string `json:"model_used" example:"default"`
}

// QueryResponse is returned by POST /api/query.
type QueryResponse struct {
	Result   Result        `json:"result"`
	Metadata QueryMetadata `json:"metadata"`
}

// PredictMetadata accompanies a prediction.
type PredictMetadata struct {
	// example: linear_regression
	ModelUsed string `json:"model_used" example:"linear_regression"`
	// Coefficient of determination on the training rows.
	// example: 0.93
	Accuracy float64 `json:"accuracy" example:"0.93"`
}

// PredictResponse is returned by POST /api/predict.
type PredictResponse struct {
	Prediction Result          `json:"prediction"`
	Metadata   PredictMetadata `json:"metadata"`
}

// ModelsResponse wraps the list of models returned by GET /api/models.
type ModelsResponse struct {
	// List of available models.
	Models []ModelInfo `json:"models"`
}

// ErrorResponse is the only shape of a failed request.
type ErrorResponse struct {
	// Error message.
	// example: No dataset provided
	Error string `json:"error" example:"No dataset provided"`
}
