package cache

// Key names a cached backend read.
type Key string

const (
	KeyFiles        Key = "files"
	KeyAllFiles     Key = "allFiles"
	KeyUserProfile  Key = "userProfile"
	KeyAllUsers     Key = "allUsers"
	KeyStorageStats Key = "storageStats"
	KeyUploadCount  Key = "uploadCount"
)

// Mutation is a successful backend write that makes some reads stale.
type Mutation int

const (
	MutationUpload Mutation = iota + 1
	MutationDelete
	MutationAdminDelete
	MutationBlock
	MutationRegister
)

var invalidations = map[Mutation][]Key{
	MutationUpload:      {KeyFiles, KeyUserProfile, KeyUploadCount},
	MutationDelete:      {KeyFiles, KeyUserProfile},
	MutationAdminDelete: {KeyAllFiles, KeyStorageStats},
	MutationBlock:       {KeyAllUsers},
	MutationRegister:    {KeyUserProfile},
}

// Keys returns the reads invalidated by m.
func (m Mutation) Keys() []Key {
	return append([]Key(nil), invalidations[m]...)
}

func (m Mutation) String() string {
	switch m {
	case MutationUpload:
		return "upload"
	case MutationDelete:
		return "delete"
	case MutationAdminDelete:
		return "admin-delete"
	case MutationBlock:
		return "block"
	case MutationRegister:
		return "register"
	default:
		return "unknown"
	}
}
