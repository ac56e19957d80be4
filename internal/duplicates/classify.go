package duplicates

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/solardesk/solardesk/internal/projects"
	"github.com/solardesk/solardesk/internal/settings"
)

// Criterion names surfaced to operators. The Chinese labels match the
// administration UI so the rendered match reasons line up with the
// threshold descriptions operators already know.
const (
	CriterionSiteCode       = "案場代碼相同"
	CriterionInvestorSerial = "投資方年度序號相同"
	CriterionAddress        = "地址相似度"
	CriterionName           = "名稱相似度"
	CriterionTokenOverlap   = "地址關鍵詞重疊"
	CriterionCapacity       = "容量差異"
	CriterionSameInvestor   = "同投資方"
	CriterionSameDistrict   = "同縣市區域"
)

// Classification is the classifier's verdict for one candidate pair.
type Classification struct {
	Confidence        ConfidenceLevel
	MatchedCriteria   []MatchCriterion
	UnmatchedCriteria []MatchCriterion
}

// Classify applies the threshold configuration and exact-match rules to
// a scored pair. Returns nil when the pair should be omitted entirely:
// either a hard exclusion fired, or no signal was strong enough to flag.
//
// Rule order: exact-match wins immediately; hard exclusion is evaluated
// only when exact-match did not fire; Medium on similarity thresholds;
// Low on shared investor, location, and compatible capacity.
func Classify(a, b projects.Project, score Score, cfg settings.Scanner) *Classification {
	c := &criteria{}

	siteCode, siteMatched := siteCodeMatch(a, b)
	c.add(CriterionSiteCode, siteMatched, siteCode)

	serial, serialMatched := investorSerialMatch(a, b)
	c.add(CriterionInvestorSerial, serialMatched, serial)

	c.add(CriterionAddress, score.AddressSimilarity >= cfg.MinAddressSimilarity, percent(score.AddressSimilarity))
	c.add(CriterionName, score.NameSimilarity >= cfg.MinNameSimilarity, percent(score.NameSimilarity))
	c.add(CriterionTokenOverlap, score.AddressTokenOverlap >= cfg.MinAddressTokenOverlap, percent(score.AddressTokenOverlap))

	if score.BothCapacities {
		c.add(CriterionCapacity, score.CapacityDifference <= cfg.MaxCapacityDifference, percent(score.CapacityDifference))
	}

	sameInvestor := a.InvestorID != nil && b.InvestorID != nil && *a.InvestorID == *b.InvestorID
	c.add(CriterionSameInvestor, sameInvestor, "")

	sameDistrict := a.City != "" && a.City == b.City && a.District != "" && a.District == b.District
	if sameDistrict {
		c.add(CriterionSameDistrict, true, a.City+a.District)
	} else {
		c.add(CriterionSameDistrict, false, "")
	}

	if siteMatched || serialMatched {
		return c.classification(ConfidenceHigh)
	}

	if excluded(score, cfg) {
		return nil
	}

	if score.AddressSimilarity >= cfg.MediumAddressThreshold ||
		score.NameSimilarity >= cfg.MediumNameThreshold {
		return c.classification(ConfidenceMedium)
	}

	capacityCompatible := !score.BothCapacities || score.CapacityDifference <= cfg.MaxCapacityDifference
	if sameInvestor && sameDistrict && capacityCompatible {
		return c.classification(ConfidenceLow)
	}

	return nil
}

// excluded applies the hard-exclusion floors. Any single floor failing
// omits the pair regardless of other signals.
func excluded(score Score, cfg settings.Scanner) bool {
	if score.AddressSimilarity < cfg.MinAddressSimilarity &&
		score.NameSimilarity < cfg.MinNameSimilarity {
		return true
	}
	if score.BothCapacities && score.CapacityDifference > cfg.MaxCapacityDifference {
		return true
	}
	return score.AddressTokenOverlap < cfg.MinAddressTokenOverlap
}

// siteCodeMatch reports whether both site code display strings are
// non-empty and equal.
func siteCodeMatch(a, b projects.Project) (string, bool) {
	sa := strings.TrimSpace(a.SiteCode)
	sb := strings.TrimSpace(b.SiteCode)

	if sa != "" && sa == sb {
		return sa, true
	}
	return "", false
}

// investorSerialMatch reports whether investor code, the applicable year
// (intake year, falling back to fiscal year), and sequence number are
// all present on both records and equal.
func investorSerialMatch(a, b projects.Project) (string, bool) {
	if a.InvestorCode == "" || a.InvestorCode != b.InvestorCode {
		return "", false
	}

	ya, yb := applicableYear(a), applicableYear(b)
	if ya == nil || yb == nil || *ya != *yb {
		return "", false
	}

	if a.Sequence == nil || b.Sequence == nil || *a.Sequence != *b.Sequence {
		return "", false
	}

	return fmt.Sprintf("%s-%d-%d", a.InvestorCode, *ya, *a.Sequence), true
}

func applicableYear(p projects.Project) *int {
	if p.IntakeYear != nil {
		return p.IntakeYear
	}
	return p.FiscalYear
}

func percent(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64) + "%"
}

type criteria struct {
	matched   []MatchCriterion
	unmatched []MatchCriterion
}

func (c *criteria) add(name string, matched bool, value string) {
	criterion := MatchCriterion{Name: name, Matched: matched}
	if matched {
		criterion.Value = value
		c.matched = append(c.matched, criterion)
		return
	}
	c.unmatched = append(c.unmatched, criterion)
}

func (c *criteria) classification(level ConfidenceLevel) *Classification {
	return &Classification{
		Confidence:        level,
		MatchedCriteria:   c.matched,
		UnmatchedCriteria: c.unmatched,
	}
}
