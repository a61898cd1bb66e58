package sctp

import "sort"

// gapAckBlock is a single (start, end) TSN range relative to a SACK's
// cumulative TSN ack point, marking data that arrived out of order.
// https://tools.ietf.org/html/rfc4960#section-3.3.4
type gapAckBlock struct {
	start uint16
	end   uint16
}

type payloadDataArray []*chunkPayloadData

func (s payloadDataArray) search(tsn uint32) (*chunkPayloadData, bool) {
	i := sort.Search(len(s), func(i int) bool {
		return s[i].tsn >= tsn
	})

	if i < len(s) && s[i].tsn == tsn {
		return s[i], true
	}
	return nil, false
}

func (s payloadDataArray) sortByTSN() {
	sort.Slice(s, func(i, j int) bool { return s[i].tsn < s[j].tsn })
}

// payloadQueue tracks inbound DATA chunks that have arrived but not yet
// been delivered in order, so SACKs can report gap-ack-blocks and
// duplicate TSNs back to the peer.
type payloadQueue struct {
	orderedPackets payloadDataArray
	dupTSN         []uint32
}

func (r *payloadQueue) push(p *chunkPayloadData, cumulativeTSN uint32) {
	_, ok := r.orderedPackets.search(p.tsn)

	// If the Data payload is already in our queue or older than our
	// cumulativeTSN marker, it's a duplicate.
	if ok || p.tsn <= cumulativeTSN {
		r.dupTSN = append(r.dupTSN, p.tsn)
		return
	}

	r.orderedPackets = append(r.orderedPackets, p)
	r.orderedPackets.sortByTSN()
}

func (r *payloadQueue) pop(tsn uint32) (*chunkPayloadData, bool) {
	if len(r.orderedPackets) > 0 && tsn == r.orderedPackets[0].tsn {
		pd := r.orderedPackets[0]
		r.orderedPackets = r.orderedPackets[1:]
		return pd, true
	}

	return nil, false
}

func (r *payloadQueue) popDuplicates() []uint32 {
	dups := r.dupTSN
	r.dupTSN = nil
	return dups
}

// getGapAckBlocks builds the gap-ack-block list a SACK should report,
// given the association's current cumulative TSN ack point.
func (r *payloadQueue) getGapAckBlocks(cumulativeTSN uint32) (blocks []*gapAckBlock) {
	if len(r.orderedPackets) == 0 {
		return nil
	}

	var b gapAckBlock
	for i, p := range r.orderedPackets {
		diff := p.gapAckBlockKey(cumulativeTSN)
		if i == 0 {
			b.start = diff
			b.end = diff
			continue
		}
		if b.end+1 == diff {
			b.end = diff
		} else {
			blocks = append(blocks, &gapAckBlock{start: b.start, end: b.end})
			b.start = diff
			b.end = diff
		}
	}
	blocks = append(blocks, &gapAckBlock{start: b.start, end: b.end})

	return blocks
}
