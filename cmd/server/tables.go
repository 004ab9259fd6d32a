package main

import (
	"net/http"

	"github.com/joaolangeloh/3decom/internal/pricing"
)

type mercadoLivreTable struct {
	Categories                  []pricing.MLCategory `json:"categories"`
	DefaultCategory             string               `json:"default_category"`
	FixedFee                    float64              `json:"fixed_fee"`
	FixedFeeThreshold           float64              `json:"fixed_fee_threshold"`
	InstallmentSurchargePercent float64              `json:"installment_surcharge_percent"`
}

type shopeeTable struct {
	Tiers                    []pricing.ShopeeTier `json:"tiers"`
	CommissionCap            float64              `json:"commission_cap"`
	CPFSurcharge             float64              `json:"cpf_surcharge"`
	CampaignSurchargePercent float64              `json:"campaign_surcharge_percent"`
}

type shippingTable struct {
	Rows           []pricing.ShippingRow `json:"rows"`
	LowThreshold   float64               `json:"low_threshold"`
	UpperThreshold float64               `json:"upper_threshold"`
}

func (s *server) handleTableMercadoLivre(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, mercadoLivreTable{
		Categories:                  pricing.MLCategories(),
		DefaultCategory:             pricing.MLDefaultCategory,
		FixedFee:                    pricing.MLFixedFee,
		FixedFeeThreshold:           pricing.MLFixedFeeThreshold,
		InstallmentSurchargePercent: pricing.MLInstallmentSurchargePercent,
	})
}

func (s *server) handleTableShopee(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, shopeeTable{
		Tiers:                    pricing.ShopeeTiers(),
		CommissionCap:            pricing.ShopeeCommissionCap,
		CPFSurcharge:             pricing.ShopeeCPFSurcharge,
		CampaignSurchargePercent: pricing.ShopeeCampaignSurchargePercent,
	})
}

func (s *server) handleTableShipping(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, shippingTable{
		Rows:           pricing.ShippingTable(),
		LowThreshold:   pricing.ShippingLowThreshold,
		UpperThreshold: pricing.ShippingUpperThreshold,
	})
}

func (s *server) handleTablePrinters(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, pricing.Printers())
}

func (s *server) handleTableCardRates(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, pricing.CardRates())
}
