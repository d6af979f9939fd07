// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/meterio/meter-nft-auction/api/nftauction"
	scriptnft "github.com/meterio/meter-nft-auction/script/nftauction"
	"github.com/meterio/meter-nft-auction/state"
)

// New return api router
func New(stateCreator *state.Creator, proxy *scriptnft.Proxy, clock func() uint64, allowedOrigins string) http.HandlerFunc {
	origins := strings.Split(strings.TrimSpace(allowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	nftauction.New(stateCreator, proxy, clock).
		Mount(router, "/auction")

	return handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}))(router).ServeHTTP
}
