package soce

// The portal renders the offer table with 7, 8 or 9 cells per row depending
// on whether the classification-code columns are duplicated. A row shape maps
// the observed cell count to named column positions exactly once, so nothing
// downstream ever touches a numeric index. -1 marks an absent column; the
// trailing cell of every variant is an action cell and carries no data.
type rowShape struct {
	no        int
	cpcCode   int
	cpcDesc   int
	desc      int
	unit      int
	qty       int
	unitPrice int
	lineTotal int
}

func shapeForCells(n int) (rowShape, bool) {
	switch n {
	case 9:
		return rowShape{no: 0, cpcCode: 1, cpcDesc: 2, desc: 3, unit: 4, qty: 5, unitPrice: 6, lineTotal: 7}, true
	case 8:
		return rowShape{no: 0, cpcCode: 1, cpcDesc: -1, desc: 2, unit: 3, qty: 4, unitPrice: 5, lineTotal: 6}, true
	case 7:
		return rowShape{no: 0, cpcCode: -1, cpcDesc: -1, desc: 1, unit: 2, qty: 3, unitPrice: 4, lineTotal: 5}, true
	}
	return rowShape{}, false
}
