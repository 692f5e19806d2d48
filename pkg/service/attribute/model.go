package attribute

type SetAttributesRequest struct {
	SubjectID    string         `json:"subjectId" validate:"required"`
	TenantDomain string         `json:"tenantDomain"`
	Attributes   map[string]any `json:"attributes" validate:"required"`
}
