package grove

// resolveLink resolves the link entry named field stored at path to the
// live view it aliases: read the stored target path, take the shared
// prefix of the current location and the target, walk the parent chain
// up to the view bound to that prefix, then walk down through child views
// along the target's remaining segments. The result is the cached view,
// not a copy.
func resolveLink(fh *fileHandle, from View, path Path, field string) (View, error) {
	target, err := fh.store.ReadLink(path, field)
	if err != nil {
		return nil, errStore(path, field, err)
	}
	common := path.Shared(target)

	anc := from
	for !anc.Path().Equal(common) {
		anc = anc.parentView()
		if anc == nil {
			return nil, errResolution(path, field, "no ancestor bound to %s while resolving %s", common, target)
		}
	}

	cur := anc
	for _, seg := range target.Segments()[common.Len():] {
		next, err := cur.descend(seg)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
