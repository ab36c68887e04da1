// Command seeder fills a running API with a demo account: one vehicle, a
// fill-up history and an oil change alert.
package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/tanque-cheio/internal/models"
	"github.com/ukydev/tanque-cheio/internal/sample"
)

type seedConfig struct {
	APIURL      string
	Email       string
	Password    string
	DisplayName string
	VehicleName string
	Plate       string
}

func loadSeedConfig() seedConfig {
	return seedConfig{
		APIURL:      getEnv("API_BASE_URL", "http://localhost:8080/api"),
		Email:       getEnv("SEED_EMAIL", "demo@tanquecheio.app"),
		Password:    getEnv("SEED_PASSWORD", "demo-password"),
		DisplayName: getEnv("SEED_DISPLAY_NAME", "Motorista Demo"),
		VehicleName: getEnv("SEED_VEHICLE_NAME", "Onix Plus"),
		Plate:       getEnv("SEED_VEHICLE_PLATE", "BRA2E19"),
	}
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

// apiClient talks to the API with a bearer token once signed in.
type apiClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func newAPIClient(baseURL string) *apiClient {
	return &apiClient{baseURL: baseURL, http: &http.Client{Timeout: 10 * time.Second}}
}

// statusError is returned when the API answers with an unexpected status.
type statusError struct {
	Path   string
	Status int
	Body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Path, e.Status, e.Body)
}

func (c *apiClient) post(path string, payload, out interface{}, want int) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", path, err)
	}
	req, err := http.NewRequest(http.MethodPost, c.baseURL+path, bytes.NewBuffer(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &statusError{Path: path, Status: resp.StatusCode, Body: string(bytes.TrimSpace(body))}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

// signIn logs in, registering the account first when it does not exist.
func (c *apiClient) signIn(cfg seedConfig) error {
	var resp models.LoginResponse
	err := c.post("/auth/login", models.LoginRequest{Email: cfg.Email, Password: cfg.Password}, &resp, http.StatusOK)
	var se *statusError
	if errors.As(err, &se) && se.Status == http.StatusUnauthorized {
		err = c.post("/auth/register", models.RegisterRequest{
			Email:       cfg.Email,
			Password:    cfg.Password,
			DisplayName: cfg.DisplayName,
		}, &resp, http.StatusCreated)
		if err == nil {
			log.WithField("email", cfg.Email).Info("Registered demo account")
		}
	}
	if err != nil {
		return err
	}
	c.token = resp.Token
	return nil
}

func (c *apiClient) createVehicle(cfg seedConfig, initialOdometer float64) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := c.post("/vehicles", models.CreateVehicleRequest{
		Name:            cfg.VehicleName,
		Plate:           cfg.Plate,
		FuelType:        models.VehicleFlex,
		InitialOdometer: initialOdometer,
	}, &vehicle, http.StatusCreated)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"vehicle_id": vehicle.ID,
		"name":       vehicle.Name,
	}).Info("Created vehicle")
	return &vehicle, nil
}

// seed posts history oldest first so the odometer only moves forward.
func seed(c *apiClient, cfg seedConfig, now time.Time) (int, error) {
	if err := c.signIn(cfg); err != nil {
		return 0, err
	}

	history := sample.FillUps(now, "", sample.NewSource(now.UnixNano()))
	oldest := history[len(history)-1]

	vehicle, err := c.createVehicle(cfg, oldest.Odometer-sample.OdometerStep)
	if err != nil {
		return 0, err
	}

	posted := 0
	for i := len(history) - 1; i >= 0; i-- {
		f := history[i]
		err := c.post("/vehicles/"+vehicle.ID+"/fillups", models.CreateFillUpRequest{
			Date:     f.Date,
			Odometer: f.Odometer,
			Liters:   f.Liters,
			Cost:     f.Cost,
			FuelType: f.FuelType,
		}, nil, http.StatusCreated)
		if err != nil {
			return posted, err
		}
		posted++
	}

	err = c.post("/alerts", models.CreateAlertRequest{
		VehicleID:           vehicle.ID,
		Name:                "Troca de Óleo",
		IntervalKm:          10000,
		LastServiceOdometer: oldest.Odometer,
	}, nil, http.StatusCreated)
	return posted, err
}

func main() {
	cfg := loadSeedConfig()
	log.WithFields(log.Fields{
		"api_url": cfg.APIURL,
		"email":   cfg.Email,
	}).Info("Seeding demo data")

	posted, err := seed(newAPIClient(cfg.APIURL), cfg, time.Now())
	if err != nil {
		log.WithError(err).WithField("fill_ups", posted).Fatal("Seeding failed")
	}
	log.WithField("fill_ups", posted).Info("Seeding completed")
}
