package reporting

import (
	"encoding/xml"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/regkit/predgap/internal/models"
)

// JUnit XML schema types

// JUnitTestSuites is the top-level container.
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Errors     int              `xml:"errors,attr"`
	Time       float64          `xml:"time,attr"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

// JUnitTestSuite maps to one gap analysis run.
type JUnitTestSuite struct {
	XMLName    xml.Name        `xml:"testsuite"`
	Name       string          `xml:"name,attr"`
	Tests      int             `xml:"tests,attr"`
	Failures   int             `xml:"failures,attr"`
	Errors     int             `xml:"errors,attr"`
	Skipped    int             `xml:"skipped,attr"`
	Time       float64         `xml:"time,attr"`
	Timestamp  string          `xml:"timestamp,attr"`
	Properties []JUnitProperty `xml:"properties>property,omitempty"`
	TestCases  []JUnitTestCase `xml:"testcase"`
}

// JUnitTestCase maps to one comparison dimension.
type JUnitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	Classname string        `xml:"classname,attr"`
	Time      float64       `xml:"time,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
	Skipped   *JUnitSkipped `xml:"skipped,omitempty"`
}

// JUnitFailure represents a blocking gap on a dimension.
type JUnitFailure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Body    string `xml:",chardata"`
}

// JUnitSkipped marks a dimension without comparable data.
type JUnitSkipped struct {
	Message string `xml:"message,attr,omitempty"`
}

// JUnitProperty is a key-value metadata entry.
type JUnitProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

// ConvertToJUnit maps a gap analysis result onto the JUnit schema so CI
// systems can gate on it: each comparison dimension becomes a test case, and
// a CRITICAL or MAJOR gap on a dimension fails it. MINOR and INFORMATIONAL
// gaps keep the case green; they are advisory, not blocking.
func ConvertToJUnit(result *models.GapResult) *JUnitTestSuites {
	suite := JUnitTestSuite{
		Name:      "predgap.gapanalysis",
		Timestamp: result.GeneratedAt.UTC().Format(time.RFC3339),
		Properties: []JUnitProperty{
			{Name: "subject", Value: result.Subject.Identity},
			{Name: "references", Value: strings.Join(result.ReferencesAnalyzed, ",")},
			{Name: "overall_risk", Value: string(result.RiskSummary.OverallRisk)},
		},
	}

	byDim := make(map[models.Dimension][]models.Gap)
	for _, g := range result.Gaps {
		byDim[g.Dimension] = append(byDim[g.Dimension], g)
	}

	for _, dim := range models.Dimensions {
		tc := JUnitTestCase{
			Name:      string(dim),
			Classname: result.Subject.Identity,
		}

		for _, g := range byDim[dim] {
			if g.Severity != models.SeverityCritical && g.Severity != models.SeverityMajor {
				continue
			}
			tc.Failure = &JUnitFailure{
				Message: g.Description,
				Type:    string(g.Severity),
				Body:    fmt.Sprintf("subject: %s\nreference: %s\nmitigation: %s", g.SubjectValue, g.ReferenceValue, g.Mitigation),
			}
			break
		}

		suite.Tests++
		if tc.Failure != nil {
			suite.Failures++
		}
		suite.TestCases = append(suite.TestCases, tc)
	}

	return &JUnitTestSuites{
		Tests:      suite.Tests,
		Failures:   suite.Failures,
		TestSuites: []JUnitTestSuite{suite},
	}
}

// WriteJUnitFile renders a gap analysis result as JUnit XML at the given path.
func WriteJUnitFile(path string, result *models.GapResult) error {
	suites := ConvertToJUnit(result)

	data, err := xml.MarshalIndent(suites, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling junit xml: %w", err)
	}

	out := append([]byte(xml.Header), data...)
	out = append(out, '\n')
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("writing junit file: %w", err)
	}
	return nil
}
