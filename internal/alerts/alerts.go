// Package alerts turns a mileage-based maintenance reminder into the status
// and message shown to the vehicle owner.
package alerts

import (
	"context"
	"fmt"

	"github.com/ukydev/tanque-cheio/internal/analytics"
	"github.com/ukydev/tanque-cheio/internal/models"
)

// FallbackMessage is shown when the generator fails.
const FallbackMessage = "Não foi possível gerar a mensagem de manutenção agora. Confira a quilometragem do seu veículo e tente novamente mais tarde."

// dueSoonShare is the fraction of the interval left at which a service is
// reported as due soon.
const dueSoonShare = 0.1

// Generator writes the owner-facing alert message.
type Generator interface {
	Generate(ctx context.Context, vehicleName string, currentOdometer, nextMaintenanceKm float64) (string, error)
}

// Evaluation is the computed state of one alert.
type Evaluation struct {
	NextMaintenanceKm float64
	RemainingKm       float64
	Status            models.AlertStatus
}

// Evaluate compares the vehicle's current odometer with the alert's next
// service reading.
func Evaluate(alert models.MaintenanceAlert, currentOdometer float64) Evaluation {
	next := alert.NextServiceOdometer()
	remaining := next - currentOdometer

	status := models.AlertOK
	switch {
	case remaining < 0:
		status = models.AlertOverdue
	case remaining <= alert.IntervalKm*dueSoonShare:
		status = models.AlertDueSoon
	}
	return Evaluation{NextMaintenanceKm: next, RemainingKm: remaining, Status: status}
}

// TemplateGenerator builds the message locally from fixed pt-BR templates.
type TemplateGenerator struct{}

func (TemplateGenerator) Generate(ctx context.Context, vehicleName string, currentOdometer, nextMaintenanceKm float64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if vehicleName == "" {
		vehicleName = analytics.DefaultVehicleLabel
	}
	remaining := nextMaintenanceKm - currentOdometer

	switch {
	case remaining < 0:
		return fmt.Sprintf("Atenção: a manutenção do %s estava prevista para %s e já passou %s do limite. Agende o serviço o quanto antes.",
			vehicleName, analytics.Distance(nextMaintenanceKm), analytics.Distance(-remaining)), nil
	case remaining == 0:
		return fmt.Sprintf("A manutenção do %s vence agora, aos %s. Agende o serviço.",
			vehicleName, analytics.Distance(nextMaintenanceKm)), nil
	default:
		return fmt.Sprintf("Olá! O %s está com %s rodados. A próxima manutenção é aos %s, faltam %s.",
			vehicleName, analytics.Distance(currentOdometer), analytics.Distance(nextMaintenanceKm), analytics.Distance(remaining)), nil
	}
}

// Message evaluates the alert and asks gen for the message, substituting
// FallbackMessage when it fails. The returned error is the generator's, for
// logging only.
func Message(ctx context.Context, gen Generator, alert models.MaintenanceAlert, currentOdometer float64) (models.AlertMessageResponse, error) {
	eval := Evaluate(alert, currentOdometer)
	resp := models.AlertMessageResponse{
		AlertID:           alert.ID,
		VehicleName:       alert.VehicleName,
		CurrentOdometer:   currentOdometer,
		NextMaintenanceKm: eval.NextMaintenanceKm,
		RemainingKm:       eval.RemainingKm,
		Status:            eval.Status,
	}

	msg, err := gen.Generate(ctx, alert.VehicleName, currentOdometer, eval.NextMaintenanceKm)
	if err != nil || msg == "" {
		resp.Message = FallbackMessage
		return resp, err
	}
	resp.Message = msg
	return resp, nil
}
