package httpadapter_test

import (
	"context"
	"testing"
	"time"

	membership "locker/contexts/enterprise-management/membership-service"
	httptransport "locker/contexts/enterprise-management/membership-service/transport/http"
)

func TestCreateEnterpriseHandlerMapsSeatAllowance(t *testing.T) {
	module, store := membership.NewInMemoryModule(nil)

	expires := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	resp, err := module.Handler.CreateEnterpriseHandler(context.Background(), "user_1", "key-1", httptransport.CreateEnterpriseRequest{
		Name:                 "Acme",
		InitSeats:            5,
		InitSeatsExpiredTime: &expires,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if resp.InitSeats != 5 {
		t.Fatalf("expected init seats 5, got %d", resp.InitSeats)
	}

	enterprise, err := store.GetEnterprise(context.Background(), resp.EnterpriseID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if enterprise.InitSeats != 5 {
		t.Fatalf("expected stored init seats 5, got %d", enterprise.InitSeats)
	}
	if enterprise.InitSeatsExpiredTime == nil || !enterprise.InitSeatsExpiredTime.Equal(expires) {
		t.Fatalf("expected stored allowance expiry %v, got %v", expires, enterprise.InitSeatsExpiredTime)
	}
}
