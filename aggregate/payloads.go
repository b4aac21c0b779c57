package aggregate

// SNO is the disk space summary served on [RouteSNO].
type SNO struct {
	DiskSpace DiskSpace `json:"diskSpace"`
}

// DiskSpace holds disk usage in bytes.
type DiskSpace struct {
	Used  Number `json:"used"`
	Trash Number `json:"trash"`
}

// EstimatedPayout is the payout summary served on [RouteEstimatedPayout].
// All amounts are in cents.
type EstimatedPayout struct {
	CurrentMonth             PayoutMonth `json:"currentMonth"`
	CurrentMonthExpectations Number      `json:"currentMonthExpectations"`
}

// PayoutMonth breaks the current month's payout down by source.
type PayoutMonth struct {
	Payout                  Number `json:"payout"`
	Held                    Number `json:"held"`
	DiskSpacePayout         Number `json:"diskSpacePayout"`
	EgressBandwidthPayout   Number `json:"egressBandwidthPayout"`
	EgressRepairAuditPayout Number `json:"egressRepairAuditPayout"`
}

// Satellites is the bandwidth summary served on [RouteSatellites].
//
// After aggregation BandwidthDaily always holds exactly one synthetic entry:
// the all-time totals of every day of every contributing node.
type Satellites struct {
	IngressSummary Number         `json:"ingressSummary"`
	EgressSummary  Number         `json:"egressSummary"`
	BandwidthDaily []BandwidthDay `json:"bandwidthDaily"`
}

// BandwidthDay is one entry of the daily bandwidth series, in bytes.
type BandwidthDay struct {
	Ingress Ingress `json:"ingress"`
	Egress  Egress  `json:"egress"`
}

// Ingress is inbound traffic by kind.
type Ingress struct {
	Usage  Number `json:"usage"`
	Repair Number `json:"repair"`
}

// Egress is outbound traffic by kind.
type Egress struct {
	Usage  Number `json:"usage"`
	Repair Number `json:"repair"`
	Audit  Number `json:"audit"`
}

func mergeSNO(a, b SNO) SNO {
	return SNO{
		DiskSpace: DiskSpace{
			Used:  a.DiskSpace.Used.Add(b.DiskSpace.Used),
			Trash: a.DiskSpace.Trash.Add(b.DiskSpace.Trash),
		},
	}
}

func mergeEstimatedPayout(a, b EstimatedPayout) EstimatedPayout {
	return EstimatedPayout{
		CurrentMonth: PayoutMonth{
			Payout:                  a.CurrentMonth.Payout.Add(b.CurrentMonth.Payout),
			Held:                    a.CurrentMonth.Held.Add(b.CurrentMonth.Held),
			DiskSpacePayout:         a.CurrentMonth.DiskSpacePayout.Add(b.CurrentMonth.DiskSpacePayout),
			EgressBandwidthPayout:   a.CurrentMonth.EgressBandwidthPayout.Add(b.CurrentMonth.EgressBandwidthPayout),
			EgressRepairAuditPayout: a.CurrentMonth.EgressRepairAuditPayout.Add(b.CurrentMonth.EgressRepairAuditPayout),
		},
		CurrentMonthExpectations: a.CurrentMonthExpectations.Add(b.CurrentMonthExpectations),
	}
}

// mergeSatellites sums the summaries and collapses both series into a single
// entry. Per-day granularity is discarded.
func mergeSatellites(a, b Satellites) Satellites {
	var total BandwidthDay
	for _, day := range a.BandwidthDaily {
		total = total.add(day)
	}
	for _, day := range b.BandwidthDaily {
		total = total.add(day)
	}

	return Satellites{
		IngressSummary: a.IngressSummary.Add(b.IngressSummary),
		EgressSummary:  a.EgressSummary.Add(b.EgressSummary),
		BandwidthDaily: []BandwidthDay{total},
	}
}

func (d BandwidthDay) add(o BandwidthDay) BandwidthDay {
	return BandwidthDay{
		Ingress: Ingress{
			Usage:  d.Ingress.Usage.Add(o.Ingress.Usage),
			Repair: d.Ingress.Repair.Add(o.Ingress.Repair),
		},
		Egress: Egress{
			Usage:  d.Egress.Usage.Add(o.Egress.Usage),
			Repair: d.Egress.Repair.Add(o.Egress.Repair),
			Audit:  d.Egress.Audit.Add(o.Egress.Audit),
		},
	}
}
