package render

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/jpalmerr/fleetpulse/aggregate"
)

// card geometry, in SVG user units
const (
	earningsBarWidth  = 880
	earningsBarX      = 22
	storageBarWidth   = 880
	storageBarX       = 22
	bandwidthBarWidth = 713
	bandwidthBarX     = 189
	pieRadius         = 66
)

// ErrIncompleteReport is returned when the report lacks a route the card needs.
var ErrIncompleteReport = errors.New("report is missing data for the card")

// Values maps placeholder names to their rendered text.
type Values map[string]string

// Header is the node count shown at the top of the card.
type Header struct {
	Success int
	Total   int
}

// CardValues computes every placeholder of the report card.
//
// The report must hold all three routes; otherwise an error wrapping
// [ErrIncompleteReport] names the missing ones.
func CardValues(report aggregate.Report, header Header, now time.Time) (Values, error) {
	sno, okSNO := report.SNO()
	payout, okPayout := report.EstimatedPayout()
	sat, okSat := report.Satellites()

	var missing []string
	if !okSNO {
		missing = append(missing, aggregate.RouteSNO)
	}
	if !okPayout {
		missing = append(missing, aggregate.RouteEstimatedPayout)
	}
	if !okSat {
		missing = append(missing, aggregate.RouteSatellites)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrIncompleteReport, strings.Join(missing, ", "))
	}

	v := Values{
		"strDateCurrent":        now.Format("02.01.2006"),
		"strHeaderNodesSuccess": strconv.Itoa(header.Success),
		"strHeaderNodesTotal":   strconv.Itoa(header.Total),
	}
	earnings(v, payout)
	storage(v, sno)
	bandwidth(v, sat)
	return v, nil
}

func earnings(v Values, p aggregate.EstimatedPayout) {
	m := p.CurrentMonth

	// bar widths are computed from the rounded dollar amounts
	dollars := func(n aggregate.Number) float64 {
		return math.Round(CentsToDollars(n.Float64())*100) / 100
	}
	expected := dollars(p.CurrentMonthExpectations)
	storage := dollars(m.DiskSpacePayout)
	egress := dollars(m.EgressBandwidthPayout)
	repairAudit := dollars(m.EgressRepairAuditPayout)
	held := dollars(m.Held)

	v["fltEarningsPaid"] = formatDollars(m.Payout.Float64())
	v["fltEarningsHeld"] = formatDollars(m.Held.Float64())
	v["fltEarningsTotalExpected"] = formatDollars(p.CurrentMonthExpectations.Float64())
	v["fltEarningsStorage"] = formatDollars(m.DiskSpacePayout.Float64())
	v["fltEarningsEgress"] = formatDollars(m.EgressBandwidthPayout.Float64())
	v["fltEarningsRepairAudit"] = formatDollars(m.EgressRepairAuditPayout.Float64())

	storageW := share(storage, expected, earningsBarWidth)
	egressW := share(egress, expected, earningsBarWidth)
	repairAuditW := share(repairAudit, expected, earningsBarWidth)
	heldW := share(held, expected, earningsBarWidth)

	v["intEarningsBarWidthStorage"] = strconv.Itoa(storageW)
	v["intEarningsBarWidthEgress"] = strconv.Itoa(egressW)
	v["intEarningsBarWidthRepairAudit"] = strconv.Itoa(repairAuditW)
	v["intEarningsBarWidthHeld"] = strconv.Itoa(heldW)
	v["intEarningsBarXEgress"] = strconv.Itoa(earningsBarX + storageW)
	v["intEarningsBarXRepairAudit"] = strconv.Itoa(earningsBarX + storageW + egressW)
	v["intEarningsBarXHeld"] = strconv.Itoa(earningsBarX + storageW + egressW + repairAuditW)
}

func storage(v Values, s aggregate.SNO) {
	used := BytesToGB(s.DiskSpace.Used.Float64())
	trash := BytesToGB(s.DiskSpace.Trash.Float64())
	total := used + trash

	v["strStorageTotalValue"], v["strStorageTotalUnit"] = FormatStorage(total)
	v["strStorageUsedValue"], v["strStorageUsedUnit"] = FormatStorage(used)
	v["strStorageTrashValue"], v["strStorageTrashUnit"] = FormatStorage(trash)

	percent := 0.0
	if used > 0 {
		percent = trash / used * 100
	}
	v["fltStorageTrashPercent"] = fmt.Sprintf("%.2f", percent)

	usedW := share(used, total, storageBarWidth)
	v["intStorageBarWidthUsed"] = strconv.Itoa(usedW)
	v["intStorageBarWidthTrash"] = strconv.Itoa(storageBarWidth - usedW)
	v["intStorageBarXTrash"] = strconv.Itoa(storageBarX + usedW)
}

func bandwidth(v Values, s aggregate.Satellites) {
	// the aggregated series holds a single all-time entry
	var day aggregate.BandwidthDay
	if n := len(s.BandwidthDaily); n > 0 {
		day = s.BandwidthDaily[n-1]
	}

	ingressUsage := BytesToGB(day.Ingress.Usage.Float64())
	ingressRepair := BytesToGB(day.Ingress.Repair.Float64())
	egressUsage := BytesToGB(day.Egress.Usage.Float64())
	egressRepairAudit := BytesToGB(day.Egress.Repair.Float64()) + BytesToGB(day.Egress.Audit.Float64())

	ingressTotal := ingressUsage + ingressRepair
	egressTotal := egressUsage + egressRepairAudit
	total := ingressTotal + egressTotal

	v["strBandwidthIngressTotalValue"], v["strBandwidthIngressTotalUnit"] = FormatStorage(ingressTotal)
	v["strBandwidthEgressTotalValue"], v["strBandwidthEgressTotalUnit"] = FormatStorage(egressTotal)
	v["strBandwidthIngressUsageValue"], v["strBandwidthIngressUsageUnit"] = FormatStorage(ingressUsage)
	v["strBandwidthIngressRepairValue"], v["strBandwidthIngressRepairUnit"] = FormatStorage(ingressRepair)
	v["strBandwidthEgressUsageValue"], v["strBandwidthEgressUsageUnit"] = FormatStorage(egressUsage)
	v["strBandwidthEgressRepairAuditValue"], v["strBandwidthEgressRepairAuditUnit"] = FormatStorage(egressRepairAudit)
	v["strBandwidthTotalValue"], v["strBandwidthTotalUnit"] = FormatStorage(total)

	ingressUsageW := share(ingressUsage, ingressTotal, bandwidthBarWidth)
	egressUsageW := share(egressUsage, egressTotal, bandwidthBarWidth)

	v["intBandwidthBarWidthIngressUsage"] = strconv.Itoa(ingressUsageW)
	v["intBandwidthBarWidthIngressRepair"] = strconv.Itoa(share(ingressRepair, ingressTotal, bandwidthBarWidth))
	v["intBandwidthBarWidthEgressUsage"] = strconv.Itoa(egressUsageW)
	v["intBandwidthBarWidthEgressRepairAudit"] = strconv.Itoa(share(egressRepairAudit, egressTotal, bandwidthBarWidth))
	v["intBandwidthBarXIngressRepair"] = strconv.Itoa(bandwidthBarX + ingressUsageW)
	v["intBandwidthBarXEgressRepairAudit"] = strconv.Itoa(bandwidthBarX + egressUsageW)

	v["strBandwidthPiePathIngress"], v["strBandwidthPiePathEgress"] = piePaths(ingressTotal, total)
}

// piePaths returns the SVG paths of the ingress and egress slices of a pie
// centred on the origin. The ingress slice starts at 12 o'clock and runs
// clockwise.
func piePaths(ingress, total float64) (ingressPath, egressPath string) {
	deg := 0.0
	if total > 0 {
		deg = ingress / total * 360
	}

	rad := deg * math.Pi / 180
	x := pieRadius * math.Sin(rad)
	y := -pieRadius * math.Cos(rad)

	large := 0
	if deg > 180 {
		large = 1
	}
	egressLarge := 0
	if deg < 180 {
		egressLarge = 1 - large
	}

	ingressPath = fmt.Sprintf("M 0 0 L 0 -%d A %d %d 0 %d 1 %.2f %.2f Z",
		pieRadius, pieRadius, pieRadius, large, x, y)
	egressPath = fmt.Sprintf("M 0 0 L %.2f %.2f A %d %d 0 %d 1 0 -%d Z",
		x, y, pieRadius, pieRadius, egressLarge, pieRadius)
	return ingressPath, egressPath
}
