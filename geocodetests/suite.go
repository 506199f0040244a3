package geocodetests

import (
	"github.com/nominatim-qa/geocode-contract-tests/framework"
)

func RunTestSuite(
	harness *framework.TestHarness,
	filter framework.Filter,
	testLogger framework.TestLogger,
) framework.Results {
	return framework.Run(harness, filter, testLogger, func(c *framework.Context) {
		t := newTestScope(c)

		t.Run("search", DoSearchTests)
		t.Run("structured search", DoStructuredSearchTests)
		t.Run("reverse", DoReverseTests)
	})
}
