package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpalmerr/fleetpulse/aggregate"
)

var cardPayloads = map[string]string{
	aggregate.RouteSNO: `{"diskSpace":{"used":3000000000000,"trash":1000000000000}}`,
	aggregate.RouteEstimatedPayout: `{
		"currentMonth": {
			"payout": 1234, "held": 500, "diskSpacePayout": 5000,
			"egressBandwidthPayout": 2500, "egressRepairAuditPayout": 1000
		},
		"currentMonthExpectations": 10000
	}`,
	aggregate.RouteSatellites: `{
		"ingressSummary": 400000000000,
		"egressSummary": 600000000000,
		"bandwidthDaily": [
			{"ingress": {"usage": 100000000000, "repair": 40000000000}, "egress": {"usage": 150000000000, "repair": 60000000000, "audit": 0}},
			{"ingress": {"usage": 200000000000, "repair": 60000000000}, "egress": {"usage": 250000000000, "repair": 40000000000, "audit": 100000000000}}
		]
	}`,
}

// buildReport aggregates a single node answering the given routes.
func buildReport(t *testing.T, routes ...string) aggregate.Report {
	t.Helper()

	payloads := make(map[string]any, len(routes))
	for _, route := range routes {
		p, err := aggregate.Decode(route, []byte(cardPayloads[route]))
		require.NoError(t, err)
		payloads[route] = p
	}

	report, err := aggregate.Aggregate([]aggregate.Contribution{{Node: "n1", Payloads: payloads}}, routes)
	require.NoError(t, err)
	return report
}

func TestCardValues(t *testing.T) {
	report := buildReport(t, aggregate.DefaultRoutes()...)
	now := time.Date(2026, time.March, 7, 9, 30, 0, 0, time.UTC)

	v, err := CardValues(report, Header{Success: 41, Total: 42}, now)
	require.NoError(t, err)

	want := Values{
		"strDateCurrent":        "07.03.2026",
		"strHeaderNodesSuccess": "41",
		"strHeaderNodesTotal":   "42",

		"fltEarningsPaid":                "12.34",
		"fltEarningsHeld":                "5.00",
		"fltEarningsTotalExpected":       "100.00",
		"fltEarningsStorage":             "50.00",
		"fltEarningsEgress":              "25.00",
		"fltEarningsRepairAudit":         "10.00",
		"intEarningsBarWidthStorage":     "440",
		"intEarningsBarWidthEgress":      "220",
		"intEarningsBarWidthRepairAudit": "88",
		"intEarningsBarWidthHeld":        "44",
		"intEarningsBarXEgress":          "462",
		"intEarningsBarXRepairAudit":     "682",
		"intEarningsBarXHeld":            "770",

		"strStorageTotalValue":    "4.00",
		"strStorageTotalUnit":     "TB",
		"strStorageUsedValue":     "3.00",
		"strStorageUsedUnit":      "TB",
		"strStorageTrashValue":    "1.00",
		"strStorageTrashUnit":     "TB",
		"fltStorageTrashPercent":  "33.33",
		"intStorageBarWidthUsed":  "660",
		"intStorageBarWidthTrash": "220",
		"intStorageBarXTrash":     "682",

		"strBandwidthIngressTotalValue":         "400.00",
		"strBandwidthIngressTotalUnit":          "GB",
		"strBandwidthEgressTotalValue":          "600.00",
		"strBandwidthEgressTotalUnit":           "GB",
		"strBandwidthIngressUsageValue":         "300.00",
		"strBandwidthIngressUsageUnit":          "GB",
		"strBandwidthIngressRepairValue":        "100.00",
		"strBandwidthIngressRepairUnit":         "GB",
		"strBandwidthEgressUsageValue":          "400.00",
		"strBandwidthEgressUsageUnit":           "GB",
		"strBandwidthEgressRepairAuditValue":    "200.00",
		"strBandwidthEgressRepairAuditUnit":     "GB",
		"strBandwidthTotalValue":                "1.00",
		"strBandwidthTotalUnit":                 "TB",
		"intBandwidthBarWidthIngressUsage":      "534",
		"intBandwidthBarWidthIngressRepair":     "178",
		"intBandwidthBarWidthEgressUsage":       "475",
		"intBandwidthBarWidthEgressRepairAudit": "237",
		"intBandwidthBarXIngressRepair":         "723",
		"intBandwidthBarXEgressRepairAudit":     "664",
		"strBandwidthPiePathIngress":            "M 0 0 L 0 -66 A 66 66 0 0 1 38.79 53.40 Z",
		"strBandwidthPiePathEgress":             "M 0 0 L 38.79 53.40 A 66 66 0 1 1 0 -66 Z",
	}
	assert.Equal(t, want, v)
}

func TestCardValues_EmptyTotals(t *testing.T) {
	report := aggregate.Report{
		aggregate.RouteSNO:             aggregate.SNO{},
		aggregate.RouteEstimatedPayout: aggregate.EstimatedPayout{},
		aggregate.RouteSatellites:      aggregate.Satellites{},
	}

	v, err := CardValues(report, Header{}, time.Now())
	require.NoError(t, err)

	assert.Equal(t, "0", v["intEarningsBarWidthStorage"])
	assert.Equal(t, "0.00", v["fltStorageTrashPercent"])
	assert.Equal(t, "0", v["intStorageBarWidthUsed"])
	assert.Equal(t, "880", v["intStorageBarWidthTrash"])
	assert.Equal(t, "0", v["intBandwidthBarWidthIngressUsage"])
	assert.Equal(t, "0.00", v["strBandwidthTotalValue"])
	assert.Equal(t, "GB", v["strBandwidthTotalUnit"])
}

func TestCardValues_IncompleteReport(t *testing.T) {
	report := buildReport(t, aggregate.RouteSNO)

	_, err := CardValues(report, Header{}, time.Now())
	require.ErrorIs(t, err, ErrIncompleteReport)
	assert.Contains(t, err.Error(), aggregate.RouteEstimatedPayout)
	assert.Contains(t, err.Error(), aggregate.RouteSatellites)
	assert.NotContains(t, err.Error(), aggregate.RouteSNO+",")

	_, err = CardValues(nil, Header{}, time.Now())
	assert.ErrorIs(t, err, ErrIncompleteReport)
}

func TestPiePaths(t *testing.T) {
	tests := []struct {
		name    string
		ingress float64
		total   float64
		wantIn  string
		wantEgr string
	}{
		{
			name:    "no traffic",
			wantIn:  "M 0 0 L 0 -66 A 66 66 0 0 1 0.00 -66.00 Z",
			wantEgr: "M 0 0 L 0.00 -66.00 A 66 66 0 1 1 0 -66 Z",
		},
		{
			name:    "ingress three quarters",
			ingress: 3,
			total:   4,
			wantIn:  "M 0 0 L 0 -66 A 66 66 0 1 1 -66.00 0.00 Z",
			wantEgr: "M 0 0 L -66.00 0.00 A 66 66 0 0 1 0 -66 Z",
		},
		{
			name:    "ingress half",
			ingress: 1,
			total:   2,
			wantIn:  "M 0 0 L 0 -66 A 66 66 0 0 1 0.00 66.00 Z",
			wantEgr: "M 0 0 L 0.00 66.00 A 66 66 0 0 1 0 -66 Z",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, egr := piePaths(tt.ingress, tt.total)
			assert.Equal(t, tt.wantIn, in)
			assert.Equal(t, tt.wantEgr, egr)
		})
	}
}
