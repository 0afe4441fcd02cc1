package collection

// The statistics run reads four slices of the collection schema and
// nothing else. KEY is the literal column name of the config table.
const (
	queryCreated = `SELECT crt FROM col`

	queryConfigValue = `SELECT val FROM config WHERE KEY = ?`

	queryCards = `
		SELECT id, nid, did, odid, type, queue, due, odue, ivl, factor, data
		FROM cards
	`

	// Reviews of deleted cards stay in the log; the join drops them so
	// every review maps back to a card row.
	queryReviews = `
		SELECT r.id, r.cid, r.ease, r.ivl, r.lastIvl, r.factor, r.time, r.type
		FROM revlog r
		JOIN cards c ON c.id = r.cid
		ORDER BY r.cid, r.id
	`
)

// Config keys holding the timing inputs. Values are stored as ASCII
// numbers in a blob column.
const (
	keyRollover       = "rollover"
	keyCreationOffset = "creationOffset"
	keyLocalOffset    = "localOffset"
	keySchedulerVer   = "schedVer"
)
