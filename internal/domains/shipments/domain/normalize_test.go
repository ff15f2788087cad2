package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var day0 = time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

func detailedDraft(service ServiceType) DetailedDraft {
	return DetailedDraft{
		Sender: &Party{Name: "Lerato", Phone: "0821234567", Email: "lerato@example.com",
			Address: Address{Street: "1 Main", City: "Pretoria"}},
		Collection: &Collection{Party: Party{Name: "Dispatch", Phone: "0820000000",
			Address: Address{City: "Pretoria"}}},
		Delivery: &Party{Name: "Johan", Phone: "0839876543",
			Address: Address{City: "Cape Town"}},
		Parcel:  &Parcel{ServiceType: service, ParcelType: "box", Dimensions: Dimensions{Weight: 3.5}},
		Payment: &Payment{Method: PaymentPayFast},
		Cost:    180,
	}
}

func TestNormalize_DetailedExpressETA(t *testing.T) {
	s, err := Normalize(detailedDraft(ServiceExpress), day0)
	require.NoError(t, err)
	require.Equal(t, day0.AddDate(0, 0, 2), s.ETA)
	require.Equal(t, StatusPending, s.Status)
	require.Equal(t, UnassignedDriverName, s.DriverName)
}

func TestNormalize_DetailedDerivesLegacyFields(t *testing.T) {
	s, err := Normalize(detailedDraft(""), day0)
	require.NoError(t, err)
	require.Equal(t, day0.AddDate(0, 0, 4), s.ETA)
	require.Equal(t, ServiceEconomy, s.Parcel.ServiceType)
	require.Equal(t, "Lerato", s.SenderName)
	require.Equal(t, "0839876543", s.ReceiverPhone)
	require.Equal(t, "Pretoria", s.Start)
	require.Equal(t, "Cape Town", s.End)
	require.Equal(t, 3.5, s.ParcelWeight)
	require.Equal(t, "box", s.PackageType)
	require.Equal(t, 180.0, s.Cost)
	require.Equal(t, 180.0, s.Payment.Amount)
	require.Equal(t, PaymentPending, s.Payment.Status)
	require.Equal(t, 1, s.Collection.NumberOfItems)
}

func TestNormalize_DetailedValidation(t *testing.T) {
	missing := detailedDraft(ServiceEconomy)
	missing.Parcel = nil
	_, err := Normalize(missing, day0)
	require.ErrorIs(t, err, ErrMissingParties)

	noReceiver := detailedDraft(ServiceEconomy)
	noReceiver.Delivery = &Party{Name: "Johan"}
	_, err = Normalize(noReceiver, day0)
	require.ErrorIs(t, err, ErrMissingReceiver)

	badTier := detailedDraft("overnight")
	_, err = Normalize(badTier, day0)
	require.ErrorIs(t, err, ErrInvalidServiceType)

	badMethod := detailedDraft(ServiceEconomy)
	badMethod.Payment = &Payment{Method: "cheque"}
	_, err = Normalize(badMethod, day0)
	require.ErrorIs(t, err, ErrInvalidPaymentMethod)
}

func TestNormalize_LegacyDefaults(t *testing.T) {
	s, err := Normalize(LegacyDraft{ReceiverName: "Johan", ReceiverPhone: "0839876543"}, day0)
	require.NoError(t, err)
	require.Equal(t, day0.AddDate(0, 0, 3), s.ETA)
	require.Equal(t, "N/A", s.SenderName)
	require.Equal(t, "0000000000", s.SenderPhone)
	require.Equal(t, "Unknown", s.Start)
	require.Equal(t, 1.0, s.ParcelWeight)
	require.Equal(t, "parcel", s.PackageType)
	require.Equal(t, PaymentCOD, s.Payment.Method)
	require.Equal(t, ServiceEconomy, s.Parcel.ServiceType)
	require.Equal(t, "legacy@example.com", s.Delivery.Email)
	require.Equal(t, "0000", s.Delivery.Address.PostalCode)
}

func TestNormalize_LegacyCallerETA(t *testing.T) {
	eta := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	s, err := Normalize(LegacyDraft{ReceiverName: "J", ReceiverPhone: "1", ETA: &eta}, day0)
	require.NoError(t, err)
	require.Equal(t, eta.AddDate(0, 0, 3), s.ETA)
}

func TestNormalize_LegacyRequiresReceiver(t *testing.T) {
	_, err := Normalize(LegacyDraft{SenderName: "A"}, day0)
	require.ErrorIs(t, err, ErrMissingReceiver)
}
