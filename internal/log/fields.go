package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldMonths     = "horizon_months"
	FieldIncome     = "total_income"
	FieldExpense    = "total_expenditure"
	FieldNet        = "net_cash_flow"
	FieldCategory   = "category"
	FieldConfigPath = "config_path"
)

// Component names
const (
	ComponentApp    = "app"
	ComponentCLI    = "cli"
	ComponentHTTP   = "http"
	ComponentConfig = "config"
	ComponentTUI    = "tui"
)

// Operation names
const (
	OpEvaluate = "evaluate"
	OpCatalog  = "catalog"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
	OpLoad     = "load"
	OpSave     = "save"
)
