package wizard

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/lib/validate"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/storage"
)

func TestMaintenance_Steps(t *testing.T) {
	w := Maintenance()
	assert.Equal(t, []string{"client", "equipment", "schedule"}, w.Steps())

	draft := storage.Maintenance{Client: storage.ClientSnapshot{ID: "c1", Name: "Durand"}}

	next, err := w.Check("client", draft)
	require.NoError(t, err)
	assert.Equal(t, "equipment", next)

	next, err = w.Check("equipment", draft)
	assert.Equal(t, "equipment", next)
	var v validate.Violations
	require.True(t, errors.As(err, &v))
	assert.Equal(t, "required", v["equipment.name"])

	draft.Equipment.Name = "Daikin Perfera"
	draft.StartDate = "2024-06-01"
	draft.EndDate = "2025-05-31"
	draft.Frequency = storage.FrequencyYearly
	draft.Amount = decimal.RequireFromString("180.00")

	_, err = w.Check("equipment", draft)
	require.NoError(t, err)

	next, err = w.Check("schedule", draft)
	require.NoError(t, err)
	assert.Equal(t, Done, next)

	assert.NoError(t, w.Validate(draft))
}

func TestMaintenance_ScheduleViolations(t *testing.T) {
	draft := storage.Maintenance{
		StartDate: "2024-06-01",
		EndDate:   "2024-05-01",
		Frequency: "hebdo",
		Amount:    decimal.NewFromInt(-5),
	}

	_, err := Maintenance().Check("schedule", draft)

	var v validate.Violations
	require.True(t, errors.As(err, &v))
	assert.Equal(t, validate.Violations{
		"endDate":   "before_start",
		"frequency": "invalid_value",
		"amount":    "must_not_be_negative",
	}, v)
}

func TestAppointment_Validate(t *testing.T) {
	err := Appointment().Validate(storage.Appointment{Date: "03/06/2024", Time: "8h"})

	var v validate.Violations
	require.True(t, errors.As(err, &v))
	assert.Equal(t, "required", v["client.name"])
	assert.Equal(t, "required", v["team"])
	assert.Equal(t, "invalid_date", v["date"])
	assert.Equal(t, "invalid_time", v["time"])
}

func TestClient_Steps(t *testing.T) {
	w := Client()

	_, err := w.Check("address", storage.Client{Address: storage.Address{City: "Lyon", PostalCode: "690"}})
	var v validate.Violations
	require.True(t, errors.As(err, &v))
	assert.Equal(t, "invalid_postal_code", v["address.postalCode"])

	next, err := w.Check("address", storage.Client{Address: storage.Address{City: "Lyon", PostalCode: "69003"}})
	require.NoError(t, err)
	assert.Equal(t, "equipment", next)
}

func TestRegistry(t *testing.T) {
	r := Default()

	next, err := r.Check(KindAppointment, "team", []byte(`{"team":"Alpha"}`))
	require.NoError(t, err)
	assert.Equal(t, "schedule", next)

	_, err = r.Check("devis", "client", nil)
	assert.ErrorIs(t, err, ErrUnknownWizard)

	_, err = r.Check(KindClient, "paiement", []byte(`{}`))
	assert.ErrorIs(t, err, ErrUnknownStep)

	_, err = r.Check(KindClient, "identity", []byte(`{"name":`))
	var v validate.Violations
	require.True(t, errors.As(err, &v))
	assert.Equal(t, "invalid_json", v["draft"])
}
