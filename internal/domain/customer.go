package domain

// Customer is a library patron
type Customer struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
	Telephone string `json:"telephone,omitempty"`
}

// CustomerPatch carries a merge-patch request body
type CustomerPatch struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email"`
	Telephone *string `json:"telephone"`
}

// Apply merges non-nil patch fields into the customer
func (p *CustomerPatch) Apply(c *Customer) {
	if p.FirstName != nil {
		c.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		c.LastName = *p.LastName
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.Telephone != nil {
		c.Telephone = *p.Telephone
	}
}

// Address is a postal address belonging to a customer
type Address struct {
	ID         int64  `json:"id"`
	Address1   string `json:"address1,omitempty"`
	Address2   string `json:"address2,omitempty"`
	City       string `json:"city,omitempty"`
	Postcode   string `json:"postcode,omitempty"`
	Country    string `json:"country,omitempty"`
	CustomerID *int64 `json:"customerId,omitempty"`
}

// AddressPatch carries a merge-patch request body
type AddressPatch struct {
	Address1   *string `json:"address1"`
	Address2   *string `json:"address2"`
	City       *string `json:"city"`
	Postcode   *string `json:"postcode"`
	Country    *string `json:"country"`
	CustomerID *int64  `json:"customerId"`
}

// Apply merges non-nil patch fields into the address
func (p *AddressPatch) Apply(a *Address) {
	if p.Address1 != nil {
		a.Address1 = *p.Address1
	}
	if p.Address2 != nil {
		a.Address2 = *p.Address2
	}
	if p.City != nil {
		a.City = *p.City
	}
	if p.Postcode != nil {
		a.Postcode = *p.Postcode
	}
	if p.Country != nil {
		a.Country = *p.Country
	}
	if p.CustomerID != nil {
		a.CustomerID = p.CustomerID
	}
}
