package catalog

// =============================================================================
// Application Type
// =============================================================================

// AppType classifies what kind of system an application is.
type AppType string

// Application types.
const (
	AppTypeCore         AppType = "core"
	AppTypeFeature      AppType = "feature"
	AppTypeTool         AppType = "tool"
	AppTypeIntegration  AppType = "integration"
	AppTypeMicroservice AppType = "microservice"

	// AppTypeUnknown is the fallback for unrecognized inbound values.
	AppTypeUnknown AppType = "unknown"
)

var appTypes = map[AppType]bool{
	AppTypeCore:         true,
	AppTypeFeature:      true,
	AppTypeTool:         true,
	AppTypeIntegration:  true,
	AppTypeMicroservice: true,
}

// ParseAppType maps a raw string to an AppType.
// Unrecognized values map to AppTypeUnknown, never to an error; strict
// contexts should call [AppType.Known] and reject the record themselves.
func ParseAppType(s string) AppType {
	if t := AppType(s); appTypes[t] {
		return t
	}
	return AppTypeUnknown
}

// Known reports whether t is one of the closed set of application types.
func (t AppType) Known() bool { return appTypes[t] }

// String returns the wire representation.
func (t AppType) String() string { return string(t) }

// =============================================================================
// Application Status
// =============================================================================

// AppStatus captures an application's lifecycle stage.
type AppStatus string

// Application statuses.
const (
	AppStatusActive      AppStatus = "active"
	AppStatusDevelopment AppStatus = "development"
	AppStatusDeprecated  AppStatus = "deprecated"
	AppStatusArchived    AppStatus = "archived"

	// AppStatusUnknown is the fallback for unrecognized inbound values.
	AppStatusUnknown AppStatus = "unknown"
)

var appStatuses = map[AppStatus]bool{
	AppStatusActive:      true,
	AppStatusDevelopment: true,
	AppStatusDeprecated:  true,
	AppStatusArchived:    true,
}

// ParseAppStatus maps a raw string to an AppStatus.
// Unrecognized values map to AppStatusUnknown.
func ParseAppStatus(s string) AppStatus {
	if st := AppStatus(s); appStatuses[st] {
		return st
	}
	return AppStatusUnknown
}

// Known reports whether s is one of the closed set of statuses.
func (s AppStatus) Known() bool { return appStatuses[s] }

// String returns the wire representation.
func (s AppStatus) String() string { return string(s) }

// =============================================================================
// Dependency Type
// =============================================================================

// DependencyType describes what kind of resource a dependency edge points at.
type DependencyType string

// Dependency types.
const (
	DependencyTypeAPI      DependencyType = "api"
	DependencyTypeDatabase DependencyType = "database"
	DependencyTypeCache    DependencyType = "cache"
	DependencyTypeService  DependencyType = "service"
	DependencyTypeLibrary  DependencyType = "library"
	DependencyTypeExternal DependencyType = "external"

	// DependencyTypeOther is the fallback for unrecognized inbound values.
	DependencyTypeOther DependencyType = "other"
)

var dependencyTypes = map[DependencyType]bool{
	DependencyTypeAPI:      true,
	DependencyTypeDatabase: true,
	DependencyTypeCache:    true,
	DependencyTypeService:  true,
	DependencyTypeLibrary:  true,
	DependencyTypeExternal: true,
}

// ParseDependencyType maps a raw string to a DependencyType.
// Unrecognized values map to DependencyTypeOther.
func ParseDependencyType(s string) DependencyType {
	if t := DependencyType(s); dependencyTypes[t] {
		return t
	}
	return DependencyTypeOther
}

// Known reports whether t is one of the closed set of dependency types.
func (t DependencyType) Known() bool { return dependencyTypes[t] }

// String returns the wire representation.
func (t DependencyType) String() string { return string(t) }

// =============================================================================
// Criticality
// =============================================================================

// Criticality ranks how badly the consumer degrades when the dependency
// is unavailable.
type Criticality string

// Criticality levels, most severe first.
const (
	CriticalityCritical Criticality = "critical"
	CriticalityHigh     Criticality = "high"
	CriticalityMedium   Criticality = "medium"
	CriticalityLow      Criticality = "low"
	CriticalityOptional Criticality = "optional"

	// CriticalityUnknown is the fallback for unrecognized inbound values.
	CriticalityUnknown Criticality = "unknown"
)

var criticalities = map[Criticality]bool{
	CriticalityCritical: true,
	CriticalityHigh:     true,
	CriticalityMedium:   true,
	CriticalityLow:      true,
	CriticalityOptional: true,
}

// ParseCriticality maps a raw string to a Criticality.
// Unrecognized values map to CriticalityUnknown.
func ParseCriticality(s string) Criticality {
	if c := Criticality(s); criticalities[c] {
		return c
	}
	return CriticalityUnknown
}

// Known reports whether c is one of the closed set of criticality levels.
func (c Criticality) Known() bool { return criticalities[c] }

// String returns the wire representation.
func (c Criticality) String() string { return string(c) }

// Severe reports whether c warrants operator attention: critical or high.
// The critical-dependencies view filters on this.
func (c Criticality) Severe() bool {
	return c == CriticalityCritical || c == CriticalityHigh
}
