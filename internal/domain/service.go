package domain

// ServiceCall is one outbound POST /api/services/<domain>/<service>.
type ServiceCall struct {
	Domain  string
	Service string
	Data    map[string]any
}

func NewServiceCall(domain, service string) ServiceCall {
	return ServiceCall{
		Domain:  domain,
		Service: service,
		Data:    make(map[string]any),
	}
}

// Target sets entity_id. Calls without a target act on every entity the
// service supports.
func (c ServiceCall) Target(entityID string) ServiceCall {
	c.Data["entity_id"] = entityID
	return c
}

func (c ServiceCall) With(key string, value any) ServiceCall {
	c.Data[key] = value
	return c
}

func (c ServiceCall) String() string {
	return c.Domain + "." + c.Service
}
