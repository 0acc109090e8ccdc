package main

import (
	_ "embed"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/Furniture-Final-Project/Furniture-sub000/config"
	"github.com/Furniture-Final-Project/Furniture-sub000/handler"
	"github.com/Furniture-Final-Project/Furniture-sub000/metrics"
	"github.com/Furniture-Final-Project/Furniture-sub000/payment"
	"github.com/Furniture-Final-Project/Furniture-sub000/service"
	"github.com/Furniture-Final-Project/Furniture-sub000/store"
)

//go:embed migrations.sql
var migrationSQL string

func main() {
	cfg := config.Load()

	st, err := store.NewPostgresStore(cfg.DSN())
	if err != nil {
		log.Fatalf("DB connection failed: %v", err)
	}
	defer st.Close()

	if _, err := st.DB.Exec(migrationSQL); err != nil {
		log.Fatalf("Failed running migrations: %v", err)
	}
	log.Println("Database migrations executed successfully")

	gateway := payment.NewMockGateway(cfg.PaymentSuccessProbability, time.Now().UnixNano())

	svc := service.NewService(service.Deps{
		Cart:             st,
		Catalog:          st,
		Users:            st,
		Orders:           st,
		Payments:         payment.NewSelector(gateway),
		TaxRatePercent:   cfg.TaxRatePercent,
		AddressMinLength: cfg.AddressMinLength,
	})

	h := handler.NewHandler(svc, metrics.NewCheckoutMetrics())

	r := mux.NewRouter()
	h.RegisterRoutes(r)

	log.Printf("Server running on :%s", cfg.HTTPPort)
	if err := http.ListenAndServe(":"+cfg.HTTPPort, r); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
