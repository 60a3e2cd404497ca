package http

import (
	"github.com/sundialhq/memberd/internal/accounts/domain"
	"github.com/sundialhq/memberd/pkg/accountsdk"
)

// toUserView strips a domain user down to its public representation.
// Password material never crosses this boundary.
func toUserView(u domain.User) accountsdk.User {
	return accountsdk.User{
		UserID:    u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Phone:     u.Phone,
	}
}

func toOrganisationView(o domain.Organization) accountsdk.Organisation {
	return accountsdk.Organisation{
		OrgID:       o.ID,
		Name:        o.Name,
		Description: o.Description,
	}
}
