package domain

// SLAConfiguration is the session-wide settings record read by the deadline
// calculator (templates) and the aggregator (notification thresholds). It is
// constructed once at startup and passed explicitly; there is no ambient
// global copy.
type SLAConfiguration struct {
	Enabled        bool                               `json:"enabled"`
	Templates      map[string]map[string]DurationSpec `json:"templates"`
	Notifications  NotificationSettings               `json:"notifications"`
	Escalation     EscalationSettings                 `json:"escalation"`
	AutoAssignment AutoAssignmentSettings             `json:"auto_assignment"`
}

// NotificationSettings controls alerting thresholds, expressed as percent of
// the SLA window remaining.
type NotificationSettings struct {
	Enabled         bool    `json:"enabled"`
	WarningPercent  float64 `json:"warning_percent"`
	CriticalPercent float64 `json:"critical_percent"`
	OnBreach        bool    `json:"on_breach"`
}

// EscalationSettings holds the ordered advisory escalation ladder.
type EscalationSettings struct {
	Enabled bool              `json:"enabled"`
	Levels  []EscalationLevel `json:"levels"`
}

// EscalationLevel maps an hours-overdue threshold to a suggested action.
type EscalationLevel struct {
	ThresholdHours float64 `json:"threshold_hours"`
	Action         string  `json:"action"`
	Description    string  `json:"description"`
	Urgent         bool    `json:"urgent"`
}

// AutoAssignmentSettings is display-only configuration for the console;
// assignment itself is owned by external collaborators.
type AutoAssignmentSettings struct {
	Enabled bool `json:"enabled"`
}

// Template resolves the duration spec configured for an entity type and SLA
// type, if any.
func (c SLAConfiguration) Template(entityType, slaType string) (DurationSpec, bool) {
	byType, ok := c.Templates[entityType]
	if !ok {
		return DurationSpec{}, false
	}
	spec, ok := byType[slaType]
	return spec, ok
}

// DefaultSLAConfiguration returns the hardcoded configuration used when no
// persisted copy exists or the persisted copy cannot be parsed.
func DefaultSLAConfiguration() SLAConfiguration {
	return SLAConfiguration{
		Enabled: true,
		Templates: map[string]map[string]DurationSpec{
			EntityTypeLead: {
				"firstResponse": HoursSpec(2, "First response to new lead"),
				"followUp":      HoursSpec(24, "Follow-up contact with lead"),
				"quotation":     DaysSpec(2, "Quotation delivered to lead"),
			},
			EntityTypeCase: {
				"firstResponse": HoursSpec(4, "First response on case"),
				"resolution":    DaysSpec(3, "Case resolved"),
			},
			EntityTypeTask: {
				"completion": HoursSpec(8, "Task completed"),
			},
			EntityTypeEmail: {
				"reply": HoursSpec(4, "Email replied to"),
			},
			EntityTypeClaim: {
				"acknowledgement": HoursSpec(1, "Claim acknowledged"),
				"assessment":      DaysSpec(5, "Claim assessed"),
				"settlement":      DaysSpec(15, "Claim settled"),
			},
		},
		Notifications: NotificationSettings{
			Enabled:         true,
			WarningPercent:  25,
			CriticalPercent: 10,
			OnBreach:        true,
		},
		Escalation: EscalationSettings{
			Enabled: true,
			Levels: []EscalationLevel{
				{ThresholdHours: 0, Action: "notify_team_lead", Description: "Escalate to team lead", Urgent: false},
				{ThresholdHours: 4, Action: "notify_manager", Description: "Escalate to manager", Urgent: true},
				{ThresholdHours: 24, Action: "notify_senior_management", Description: "Escalate to senior management", Urgent: true},
			},
		},
		AutoAssignment: AutoAssignmentSettings{Enabled: false},
	}
}
