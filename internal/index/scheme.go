package index

var (
	bPosts      = []byte("posts")       // id -> postBytes
	bAlias      = []byte("alias")       // oldID -> id
	bIdxCreated = []byte("idx_created") // invTime + 0x00 + id
	bIdxRegion  = []byte("idx_region")  // country -> sub-bucket of province + invTime + 0x00 + id
	bInfo       = []byte("info")        // revision etc.

	kRevision = []byte("revision")
)
