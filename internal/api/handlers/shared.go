package handlers

import (
	"net/http"

	"github.com/ndewijer/portfolio-ledger/internal/api/response"
	"github.com/ndewijer/portfolio-ledger/internal/model"
)

// SnapshotHeader carries the ID of the snapshot a response was computed from.
const SnapshotHeader = "X-Snapshot-Id"

// currentSnapshot returns the current snapshot, or writes a 503 and returns false.
func (h *PortfolioHandler) currentSnapshot(w http.ResponseWriter, r *http.Request) (*model.Snapshot, bool) {
	snap, err := h.portfolioService.Current()
	if err != nil {
		response.RespondErr(w, r, "no ledger loaded", err)
		return nil, false
	}
	w.Header().Set(SnapshotHeader, snap.ID.String())
	return snap, true
}
