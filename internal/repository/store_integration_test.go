//go:build integration

package repository_test

import (
	"context"
	"testing"
	"time"

	"ecodeli/internal/apperr"
	"ecodeli/internal/domain"
	"ecodeli/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type StoreSuite struct {
	suite.Suite
	users         *repository.UserRepo
	notifications *repository.NotificationRepo
	purchases     *repository.PurchaseRepo
	subscriptions *repository.SubscriptionRepo
	providers     *repository.ProviderRepo
	cartDrops     *repository.CartDropRepo
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupSuite() {
	s.users = repository.NewUserRepo(tcPool)
	s.notifications = repository.NewNotificationRepo(tcPool)
	s.purchases = repository.NewPurchaseRepo(tcPool)
	s.subscriptions = repository.NewSubscriptionRepo(tcPool)
	s.providers = repository.NewProviderRepo(tcPool)
	s.cartDrops = repository.NewCartDropRepo(tcPool)
}

func (s *StoreSuite) SetupTest() {
	s.Require().NoError(truncateAll(context.Background(), tcPool))
}

func (s *StoreSuite) createUser(email string, role domain.Role) int64 {
	u := &domain.User{Email: email, PasswordHash: "x", Name: "n", Role: role}
	s.Require().NoError(s.users.Create(context.Background(), u))
	return u.ID
}

func (s *StoreSuite) TestUsers() {
	ctx := context.Background()
	id := s.createUser("a@example.com", domain.RoleMerchant)

	u, err := s.users.GetByEmail(ctx, "a@example.com")
	s.Require().NoError(err)
	s.Require().NotNil(u)
	s.Equal(id, u.ID)
	s.Equal(domain.RoleMerchant, u.Role)

	byID, err := s.users.Get(ctx, id)
	s.Require().NoError(err)
	s.Equal("a@example.com", byID.Email)

	none, err := s.users.GetByEmail(ctx, "missing@example.com")
	s.Require().NoError(err)
	s.Nil(none)
}

func (s *StoreSuite) TestNotifications() {
	ctx := context.Background()
	owner := s.createUser("a@example.com", domain.RoleClient)
	other := s.createUser("b@example.com", domain.RoleClient)

	first := &domain.Notification{UserID: owner, Kind: domain.NotifyAccount, Title: "hello"}
	second := &domain.Notification{UserID: owner, Kind: domain.NotifyPayment, Title: "paid"}
	s.Require().NoError(s.notifications.Insert(ctx, first))
	s.Require().NoError(s.notifications.Insert(ctx, second))

	ok, err := s.notifications.MarkRead(ctx, first.ID, other)
	s.Require().NoError(err)
	s.False(ok)

	ok, err = s.notifications.MarkRead(ctx, first.ID, owner)
	s.Require().NoError(err)
	s.True(ok)

	unread, err := s.notifications.ListByUser(ctx, owner, true, 10)
	s.Require().NoError(err)
	s.Require().Len(unread, 1)
	s.Equal(second.ID, unread[0].ID)

	all, err := s.notifications.ListByUser(ctx, owner, false, 10)
	s.Require().NoError(err)
	s.Len(all, 2)
}

func (s *StoreSuite) TestPurchases() {
	ctx := context.Background()
	client := s.createUser("a@example.com", domain.RoleClient)

	p := &domain.InternationalPurchase{
		Reference:       uuid.NewString(),
		ClientID:        client,
		ProductName:     "Tea",
		ProductURL:      "https://example.com/tea",
		Country:         "JP",
		Quantity:        2,
		MaxPriceCents:   3000,
		DeliveryAddress: "Paris",
		Status:          domain.PurchaseRequested,
	}
	s.Require().NoError(s.purchases.Create(ctx, p))

	list, err := s.purchases.ListByClient(ctx, client)
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal(p.Reference, list[0].Reference)
	s.Equal(domain.PurchaseRequested, list[0].Status)
}

func (s *StoreSuite) TestSubscriptions() {
	ctx := context.Background()
	client := s.createUser("a@example.com", domain.RoleClient)

	none, err := s.subscriptions.Get(ctx, client)
	s.Require().NoError(err)
	s.Nil(none)

	now := time.Now().UTC().Truncate(time.Second)
	s.Require().NoError(s.subscriptions.Upsert(ctx, &domain.Subscription{UserID: client, Plan: domain.PlanStarter, StartedAt: now}))
	s.Require().NoError(s.subscriptions.Upsert(ctx, &domain.Subscription{UserID: client, Plan: domain.PlanPremium, StartedAt: now}))

	got, err := s.subscriptions.Get(ctx, client)
	s.Require().NoError(err)
	s.Equal(domain.PlanPremium, got.Plan)
}

func (s *StoreSuite) TestProviderSchedulesEvaluationsTransfers() {
	ctx := context.Background()
	provider := s.createUser("p@example.com", domain.RoleProvider)
	client := s.createUser("c@example.com", domain.RoleClient)

	s.Require().NoError(s.providers.UpsertSchedule(ctx, &domain.Schedule{ProviderID: provider, Weekday: 2, Start: "09:00", End: "12:00"}))
	s.Require().NoError(s.providers.UpsertSchedule(ctx, &domain.Schedule{ProviderID: provider, Weekday: 2, Start: "10:00", End: "18:00"}))
	s.Require().NoError(s.providers.UpsertSchedule(ctx, &domain.Schedule{ProviderID: provider, Weekday: 0, Start: "08:00", End: "10:00"}))

	slots, err := s.providers.ListSchedules(ctx, provider)
	s.Require().NoError(err)
	s.Require().Len(slots, 2)
	s.Equal(0, slots[0].Weekday)
	s.Equal("10:00", slots[1].Start)

	s.Require().NoError(s.providers.CreateEvaluation(ctx, &domain.ServiceEvaluation{ProviderID: provider, ClientID: client, Rating: 4}))
	err = s.providers.CreateEvaluation(ctx, &domain.ServiceEvaluation{ProviderID: provider, ClientID: client, Rating: 1})
	s.Require().ErrorIs(err, apperr.ErrConflict)
	err = s.providers.CreateEvaluation(ctx, &domain.ServiceEvaluation{ProviderID: 9999, ClientID: client, Rating: 1})
	s.Require().ErrorIs(err, apperr.ErrNotFound)

	sum, err := s.providers.EvaluationSummary(ctx, provider)
	s.Require().NoError(err)
	s.Equal(int64(1), sum.Count)
	s.InDelta(4.0, sum.Average, 0.001)

	empty, err := s.providers.EvaluationSummary(ctx, client)
	s.Require().NoError(err)
	s.Zero(empty.Count)

	t := &domain.AirportTransfer{ClientID: client, Airport: "CDG", FlightNumber: "AF123",
		PickupAt: time.Now().Add(24 * time.Hour), Passengers: 2, Direction: domain.TransferArrival, Status: "booked"}
	s.Require().NoError(s.providers.CreateTransfer(ctx, t))
	transfers, err := s.providers.ListTransfers(ctx, client)
	s.Require().NoError(err)
	s.Require().Len(transfers, 1)
	s.Equal("CDG", transfers[0].Airport)
}

func (s *StoreSuite) TestCartDrops() {
	ctx := context.Background()
	merchant := s.createUser("m@example.com", domain.RoleMerchant)

	for _, st := range []domain.CartDropStatus{domain.CartDropPending, domain.CartDropPending, domain.CartDropDelivered} {
		s.Require().NoError(s.cartDrops.Create(ctx, &domain.CartDrop{
			MerchantID: merchant, CustomerName: "Eve", Address: "Paris", TimeSlot: "18:00-20:00",
			Items: []string{"bread", "milk"}, Status: st,
		}))
	}

	list, err := s.cartDrops.ListByMerchant(ctx, merchant)
	s.Require().NoError(err)
	s.Require().Len(list, 3)
	s.Equal([]string{"bread", "milk"}, list[0].Items)

	counts, err := s.cartDrops.CountByStatus(ctx, merchant)
	s.Require().NoError(err)
	s.Equal(map[domain.CartDropStatus]int64{domain.CartDropPending: 2, domain.CartDropDelivered: 1}, counts)
}
