// Package cuts holds selection thresholds recommended by the b-tag and
// jet-ID groups. Discriminator thresholds are "greater than"; eta cuts are
// "absolute value less than".
package cuts

// Jet identification.
const (
	JetPt  = 20.0
	JetEta = 4.7
)

// b-tag acceptance.
const (
	BTagPt  = 20.0
	BTagEta = 2.4
)

// Tagger is a b-tag discriminator family.
type Tagger int

const (
	CSVv2 Tagger = iota
	DeepCSV
	DeepFlavour
)

func (t Tagger) String() string {
	switch t {
	case CSVv2:
		return "CSVv2"
	case DeepCSV:
		return "DeepCSV"
	case DeepFlavour:
		return "DeepFlavour"
	default:
		return "unknown"
	}
}

type Period int

const (
	Run2016 Period = 2016
	Run2017 Period = 2017
	Run2018 Period = 2018
)

type wpKey struct {
	tagger Tagger
	period Period
}

var medium = map[wpKey]float64{
	{CSVv2, Run2016}:       0.800,
	{DeepCSV, Run2016}:     0.6321,
	{DeepCSV, Run2017}:     0.4941,
	{DeepCSV, Run2018}:     0.4184,
	{DeepFlavour, Run2016}: 0.3093,
	{DeepFlavour, Run2017}: 0.3033,
	{DeepFlavour, Run2018}: 0.2770,
}

// MediumWP returns the medium working point of tagger in period.
// ok is false when the combination has no recommendation.
func MediumWP(tagger Tagger, period Period) (wp float64, ok bool) {
	wp, ok = medium[wpKey{tagger, period}]
	return wp, ok
}
