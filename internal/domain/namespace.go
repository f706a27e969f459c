package domain

import (
	"fmt"
	"strings"
)

// NamespaceName identifies one portal's isolated storage partition.
type NamespaceName string

const (
	NamespacePM       NamespaceName = "pm"
	NamespaceEmployee NamespaceName = "employee"
	NamespaceClient   NamespaceName = "client"
	NamespaceSales    NamespaceName = "sales"
	NamespaceAdmin    NamespaceName = "admin"
)

// Namespace binds a role to its storage keys and API prefix.
type Namespace struct {
	Name       NamespaceName
	TokenKey   string
	ProfileKey string
	APIPrefix  string
	// ProfileField is the key under the login response's data object that
	// carries the actor record, e.g. "pm" or "employee".
	ProfileField string
}

var (
	PM = Namespace{
		Name:         NamespacePM,
		TokenKey:     "pmToken",
		ProfileKey:   "pmUser",
		APIPrefix:    "/pm",
		ProfileField: "pm",
	}
	Employee = Namespace{
		Name:         NamespaceEmployee,
		TokenKey:     "employeeToken",
		ProfileKey:   "employeeUser",
		APIPrefix:    "/employee",
		ProfileField: "employee",
	}
	Client = Namespace{
		Name:         NamespaceClient,
		TokenKey:     "clientToken",
		ProfileKey:   "clientUser",
		APIPrefix:    "/client",
		ProfileField: "client",
	}
	Sales = Namespace{
		Name:         NamespaceSales,
		TokenKey:     "salesToken",
		ProfileKey:   "salesUser",
		APIPrefix:    "/sales",
		ProfileField: "sales",
	}
	Admin = Namespace{
		Name:         NamespaceAdmin,
		TokenKey:     "adminToken",
		ProfileKey:   "adminUser",
		APIPrefix:    "/admin",
		ProfileField: "admin",
	}
)

// Namespaces lists every known portal namespace.
func Namespaces() []Namespace {
	return []Namespace{PM, Employee, Client, Sales, Admin}
}

// LookupNamespace resolves a namespace by its name, case-insensitively.
func LookupNamespace(name string) (Namespace, error) {
	want := NamespaceName(strings.ToLower(strings.TrimSpace(name)))
	for _, ns := range Namespaces() {
		if ns.Name == want {
			return ns, nil
		}
	}
	return Namespace{}, fmt.Errorf("unknown namespace %q", name)
}

// Path joins a role-relative endpoint onto the namespace prefix.
func (n Namespace) Path(endpoint string) string {
	return n.APIPrefix + "/" + strings.TrimLeft(endpoint, "/")
}
