// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package reserve

import (
	"os"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
)

// AmountList is a semicolon-separated vector of Amount, the gocsv
// TypeMarshaller shape the teacher's tx-gatling storage package doesn't
// need (its rows are scalar) but the reserve engine's per-currency
// vectors do.
type AmountList []Amount

// MarshalCSV implements gocsv.TypeMarshaller.
func (a AmountList) MarshalCSV() (string, error) {
	parts := make([]string, len(a))
	for i, v := range a {
		parts[i] = strconv.FormatInt(int64(v), 10)
	}
	return strings.Join(parts, ";"), nil
}

// UnmarshalCSV implements gocsv.TypeUnmarshaller.
func (a *AmountList) UnmarshalCSV(s string) error {
	if s == "" {
		*a = nil
		return nil
	}
	parts := strings.Split(s, ";")
	out := make(AmountList, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return err
		}
		out[i] = Amount(v)
	}
	*a = out
	return nil
}

// Scenario is one literal scenario from spec.md §8, laid out the way
// tx-gatling's CSV-backed UTXO rows are (github.com/gocarina/gocsv struct
// tags). Kind distinguishes the two shapes a row can drive: "convert" and
// "reserve-to-reserve" feed a single ConvertAmounts call directly;
// "import" builds a plain/pre-convert/burn transfer batch and drives it
// through AddReserveTransferImportOutputs.
type Scenario struct {
	Name        string `csv:"name"`
	Description string `csv:"description"`
	Kind        string `csv:"kind"`

	Weights  AmountList `csv:"weights"`
	Reserves AmountList `csv:"reserves"`
	Supply   int64      `csv:"supply"`

	InputReserves   AmountList `csv:"input_reserves"`
	InputFractional AmountList `csv:"input_fractional"`

	// CrossFromIndex/CrossToIndex/CrossAmount describe a single reserve-
	// to-reserve route for the "reserve-to-reserve" kind (spec.md §4.2
	// step 8): CrossAmount of the reserve at CrossFromIndex is routed on
	// to the reserve at CrossToIndex.
	CrossFromIndex int   `csv:"cross_from_index"`
	CrossToIndex   int   `csv:"cross_to_index"`
	CrossAmount    int64 `csv:"cross_amount"`

	// CarveOutPercent/PlainAmount/PreconvertAmount/BurnAmount parameterize
	// the "import" kind's transfer batch (spec.md §8 scenario 6, "import
	// conservation"): one plain transfer, one pre-conversion carrying a
	// carve-out, and one burn.
	CarveOutPercent  int64 `csv:"carve_out_percent"`
	PlainAmount      int64 `csv:"plain_amount"`
	PreconvertAmount int64 `csv:"preconvert_amount"`
	BurnAmount       int64 `csv:"burn_amount"`

	ExpectError bool `csv:"expect_error"`

	ExpectedRates    AmountList `csv:"expected_rates"`
	ExpectedSupply   int64      `csv:"expected_supply"`
	ExpectedReserves AmountList `csv:"expected_reserves"`

	// ExpectedCarveOut/ExpectedImported are the "import" kind's expected
	// carve-out share and final imported-currency total.
	ExpectedCarveOut int64 `csv:"expected_carveout"`
	ExpectedImported int64 `csv:"expected_imported"`
}

// LoadScenarios reads scenarios from a CSV file at path, mirroring
// storage.CSVStorage.FetchData's gocsv.UnmarshalFile usage.
func LoadScenarios(path string) ([]Scenario, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var scenarios []Scenario
	if err := gocsv.UnmarshalFile(file, &scenarios); err != nil {
		return nil, err
	}
	return scenarios, nil
}
