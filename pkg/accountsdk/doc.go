// Package accountsdk is a typed Go client for the memberd accounts
// service. It mirrors the HTTP surface one-to-one: an SDKClient for
// the unauthenticated endpoints (register, login, health, JWKS) and a
// Session for everything behind bearer auth.
//
// Basic usage:
//
//	client := accountsdk.NewSDKClient("http://localhost:8080")
//	_, session, err := client.Register(ctx, accountsdk.RegisterRequest{
//		FirstName: "John",
//		LastName:  "Doe",
//		Email:     "john.doe@example.com",
//		Password:  "password123",
//	})
//	if err != nil {
//		// *accountsdk.ValidationError for 422s,
//		// *accountsdk.APIError for everything else
//	}
//	orgs, err := session.ListOrganisations(ctx)
package accountsdk
