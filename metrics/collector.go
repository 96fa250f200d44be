package metrics

// Collector wraps metrics and provides helper methods with the service label pre-filled.
type Collector struct {
	service string
}

// NewCollector creates a new Collector for the given service name.
func NewCollector(service string) *Collector {
	return &Collector{service: service}
}

// Scope returns the scope label for a migration.
func Scope(primary bool) string {
	if primary {
		return ScopePrimary
	}
	return ScopeBackup
}

// IncMigrationsStarted increments the started counter for the given scope.
func (c *Collector) IncMigrationsStarted(scope string) {
	MigrationsStartedTotal.WithLabelValues(c.service, scope).Inc()
}

// IncMigrationsCommitted increments the committed counter for the given scope.
func (c *Collector) IncMigrationsCommitted(scope string) {
	MigrationsCommittedTotal.WithLabelValues(c.service, scope).Inc()
}

// IncMigrationsRolledBack increments the rolled back counter for the given scope.
func (c *Collector) IncMigrationsRolledBack(scope string) {
	MigrationsRolledBackTotal.WithLabelValues(c.service, scope).Inc()
}

// IncServiceErrors increments the wrapped service error counter for a lifecycle phase.
func (c *Collector) IncServiceErrors(phase string) {
	ServiceErrorsTotal.WithLabelValues(c.service, phase).Inc()
}

// ObserveValidation records the result of a stamp validation.
func (c *Collector) ObserveValidation(valid bool) {
	result := ResultStale
	if valid {
		result = ResultValid
	}
	StampValidationsTotal.WithLabelValues(c.service, result).Inc()
}

// IncContractViolations increments the contract violation counter.
func (c *Collector) IncContractViolations() {
	ContractViolationsTotal.WithLabelValues(c.service).Inc()
}

// IncInFlight counts a primary replica migration that entered flight.
// Guards of every partition of a service share the gauge.
func (c *Collector) IncInFlight() {
	MigrationsInFlight.WithLabelValues(c.service).Inc()
}

// DecInFlight counts a primary replica migration that left flight.
func (c *Collector) DecInFlight() {
	MigrationsInFlight.WithLabelValues(c.service).Dec()
}

// ObserveMigrationDuration records a migration duration for the given outcome.
func (c *Collector) ObserveMigrationDuration(outcome string, seconds float64) {
	MigrationDuration.WithLabelValues(c.service, outcome).Observe(seconds)
}
