// Package mocks provides gomock implementations of the session shell ports.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for the port interfaces.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	gw := mocks.NewMockCredentialGateway(ctrl)
//	gw.EXPECT().GetUserInfo(gomock.Any()).Return(nil)
package mocks

// Generate mock for CredentialGateway interface from internal/ports package.
// This creates MockCredentialGateway with methods for all CredentialGateway interface methods:
// Login, Register, Logout, RefreshSession, GetUserInfo, CSRFToken, UpdateProfile, ChangePassword
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=credential_gateway_mock.go github.com/vbrevik/plan-targeting-assessment-sub003/internal/ports CredentialGateway

// Generate mock for SyncBus interface from internal/ports package.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=sync_bus_mock.go github.com/vbrevik/plan-targeting-assessment-sub003/internal/ports SyncBus
