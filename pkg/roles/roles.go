package roles

// Role represents a user's permission level.
type Role string

const (
	User      Role = "user"
	Warehouse Role = "warehouse"
	Admin     Role = "admin"
)

type HierarchyLevel int

const (
	UserLevel      HierarchyLevel = 1
	WarehouseLevel HierarchyLevel = 2
	AdminLevel     HierarchyLevel = 3
)

func (r Role) GetHierarchyLevel() HierarchyLevel {
	switch r {
	case User:
		return UserLevel
	case Warehouse:
		return WarehouseLevel
	case Admin:
		return AdminLevel
	default:
		return UserLevel
	}
}

// HasPermission checks whether the role meets the required level.
func (r Role) HasPermission(requiredRole Role) bool {
	return r.GetHierarchyLevel() >= requiredRole.GetHierarchyLevel()
}

func (r Role) IsValid() bool {
	switch r {
	case User, Warehouse, Admin:
		return true
	default:
		return false
	}
}

func (r Role) String() string {
	return string(r)
}
