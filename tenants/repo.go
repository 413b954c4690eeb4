package tenants

type Repo interface {
	Upsert(tenantData *Tenant) error
	Get(tenantID string) (*Tenant, error)
	List() ([]*Tenant, error)
}
