package services

import "github.com/sahilchouksey/dept-events/model"

// Actor identifies the authenticated caller of a service operation. IPAddress
// and UserAgent are only used for the audit trail and may be empty.
type Actor struct {
	ID        uint
	Role      model.Role
	IPAddress string
	UserAgent string
}
