package console

// DefaultPageSize is the page size shared by base lists and search
// result lists.
const DefaultPageSize = 10

// Window computes the half-open row range [(page-1)*size, page*size)
// as an offset/limit pair. Page numbers are 1-based.
func Window(page, size int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	return (page - 1) * size, size
}

// TotalPages returns ceil(total/size), with a minimum of 1 so an empty
// collection still has a first page.
func TotalPages(total, size int) int {
	if total <= 0 {
		return 1
	}
	return (total + size - 1) / size
}

// ClampPage clamps a requested page into [1, TotalPages(total, size)].
func ClampPage(page, total, size int) int {
	if page < 1 {
		return 1
	}
	if last := TotalPages(total, size); page > last {
		return last
	}
	return page
}
