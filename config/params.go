// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package config

import (
	"gitlab.com/jaxnet/reservecore/chaincfg"
)

// ActiveNetParams is the reserve parameter set active for the running
// process. It is set to mainnet; this module has no network selection
// and nothing in it reassigns the variable.
var ActiveNetParams = &chaincfg.MainNetParams
