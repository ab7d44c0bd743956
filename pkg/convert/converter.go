package convert

import (
	"github.com/cuemby/oretrace/pkg/config"
	"github.com/cuemby/oretrace/pkg/log"
	"github.com/cuemby/oretrace/pkg/normalize"
	"github.com/rs/zerolog"
)

// Column synonyms, English first then the localized headers
var (
	colRowNumber  = []string{"row_number", "ردیف"}
	colDate       = []string{"date", "تاریخ"}
	colTonnage    = []string{"tonnage_kg", "tonnage", "تناژ"}
	colCumulative = []string{"cumulative_tonnage", "جمع تناژ"}
	colDriver     = []string{"driver", "driver_name", "راننده", "نام راننده"}
	colTruck      = []string{"truck_number", "شماره کامیون"}
	colReceipt    = []string{"receipt_number", "شماره رسید"}
	colDest       = []string{"destination", "مقصد"}
	colCostPerTon = []string{"cost_per_ton", "هزینه به ازای هر تن"}
	colNotes      = []string{"notes", "توضیحات"}
	colSample     = []string{"sample_code", "Sample"}
	colAu         = []string{"au_ppm", "Au (ppm)"}
)

// Converter turns raw workbook records into typed records using the
// configured facility, driver and transport tables
type Converter struct {
	cfg     *config.Config
	drivers *normalize.DriverRegistry
	logger  zerolog.Logger
}

// New creates a converter. A nil cfg uses config.Default.
func New(cfg *config.Config) *Converter {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Converter{
		cfg:     cfg,
		drivers: normalize.NewDriverRegistry(cfg.Drivers),
		logger:  log.WithComponent("convert"),
	}
}

// Drivers returns the registry used for driver canonicalization
func (c *Converter) Drivers() *normalize.DriverRegistry {
	return c.drivers
}
