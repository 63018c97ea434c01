package ports_test

import (
	"testing"

	"github.com/vbrevik/plan-targeting-assessment-sub003/internal/adapters/authapi"
	redisadapter "github.com/vbrevik/plan-targeting-assessment-sub003/internal/adapters/redis"
	"github.com/vbrevik/plan-targeting-assessment-sub003/internal/mocks"
	mockauth "github.com/vbrevik/plan-targeting-assessment-sub003/internal/mocks/auth"
	"github.com/vbrevik/plan-targeting-assessment-sub003/internal/ports"
	"github.com/vbrevik/plan-targeting-assessment-sub003/internal/service"
)

// This test only verifies that adapters and mocks conform to the ports at compile time.
func TestImplementationsSatisfyPorts(t *testing.T) {
	t.Helper()

	var _ ports.CredentialGateway = (*authapi.Client)(nil)
	var _ ports.CredentialGateway = (*mockauth.FakeGateway)(nil)
	var _ ports.CredentialGateway = (*mocks.MockCredentialGateway)(nil)

	var _ ports.SyncBus = (*redisadapter.SyncBus)(nil)
	var _ ports.SyncBus = (*mockauth.MemorySyncBus)(nil)
	var _ ports.SyncBus = (*mocks.MockSyncBus)(nil)

	var _ ports.LoginRedirector = (*service.EventHub)(nil)
	var _ ports.LoginRedirector = (*mockauth.RecordingRedirector)(nil)

	var _ ports.Clock = service.SystemClock{}
}
