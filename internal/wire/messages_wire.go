package wire

func (m *RegisterUserRequest) appendWire(b []byte) ([]byte, error) {
	return appendString(b, 1, m.Email), nil
}

func (m *RegisterUserRequest) setField(f field) (err error) {
	if f.num == 1 {
		m.Email, err = f.str()
	}
	return err
}

func (m *UserProfile) appendWire(b []byte) ([]byte, error) {
	b = appendString(b, 1, m.Principal)
	b = appendString(b, 2, m.Email)
	b = appendString(b, 3, m.Role)
	b = appendInt64(b, 4, m.StorageUsed)
	b = appendInt64(b, 5, m.StorageLimit)
	b = appendBool(b, 6, m.Blocked)
	return appendTimestamp(b, 7, m.RegisteredAt)
}

func (m *UserProfile) setField(f field) (err error) {
	switch f.num {
	case 1:
		m.Principal, err = f.str()
	case 2:
		m.Email, err = f.str()
	case 3:
		m.Role, err = f.str()
	case 4:
		m.StorageUsed, err = f.int64()
	case 5:
		m.StorageLimit, err = f.int64()
	case 6:
		m.Blocked, err = f.bool()
	case 7:
		m.RegisteredAt, err = f.timestamp()
	}
	return err
}

func (m *GetProfileResponse) appendWire(b []byte) ([]byte, error) {
	if m.Profile == nil {
		return b, nil
	}
	return appendMessage(b, 1, m.Profile)
}

func (m *GetProfileResponse) setField(f field) error {
	if f.num != 1 {
		return nil
	}
	m.Profile = new(UserProfile)
	return f.message(m.Profile)
}

func (m *IsAdminResponse) appendWire(b []byte) ([]byte, error) {
	return appendBool(b, 1, m.IsAdmin), nil
}

func (m *IsAdminResponse) setField(f field) (err error) {
	if f.num == 1 {
		m.IsAdmin, err = f.bool()
	}
	return err
}

func (m *RoleResponse) appendWire(b []byte) ([]byte, error) {
	return appendString(b, 1, m.Role), nil
}

func (m *RoleResponse) setField(f field) (err error) {
	if f.num == 1 {
		m.Role, err = f.str()
	}
	return err
}

func (m *CreateUploadRequest) appendWire(b []byte) ([]byte, error) {
	b = appendString(b, 1, m.FileName)
	b = appendString(b, 2, m.ContentType)
	return appendInt64(b, 3, m.Size), nil
}

func (m *CreateUploadRequest) setField(f field) (err error) {
	switch f.num {
	case 1:
		m.FileName, err = f.str()
	case 2:
		m.ContentType, err = f.str()
	case 3:
		m.Size, err = f.int64()
	}
	return err
}

func (m *CreateUploadResponse) appendWire(b []byte) ([]byte, error) {
	b = appendString(b, 1, m.BlobKey)
	b = appendString(b, 2, m.UploadURL)
	return appendTimestamp(b, 3, m.ExpiresAt)
}

func (m *CreateUploadResponse) setField(f field) (err error) {
	switch f.num {
	case 1:
		m.BlobKey, err = f.str()
	case 2:
		m.UploadURL, err = f.str()
	case 3:
		m.ExpiresAt, err = f.timestamp()
	}
	return err
}

func (m *UploadFileRequest) appendWire(b []byte) ([]byte, error) {
	b = appendString(b, 1, m.FileName)
	b = appendString(b, 2, m.ContentType)
	b = appendInt64(b, 3, m.Size)
	return appendString(b, 4, m.BlobKey), nil
}

func (m *UploadFileRequest) setField(f field) (err error) {
	switch f.num {
	case 1:
		m.FileName, err = f.str()
	case 2:
		m.ContentType, err = f.str()
	case 3:
		m.Size, err = f.int64()
	case 4:
		m.BlobKey, err = f.str()
	}
	return err
}

func (m *FileRecord) appendWire(b []byte) ([]byte, error) {
	b = appendString(b, 1, m.ID)
	b = appendString(b, 2, m.Owner)
	b = appendString(b, 3, m.FileName)
	b = appendString(b, 4, m.ContentType)
	b = appendInt64(b, 5, m.Size)
	b = appendString(b, 6, m.BlobKey)
	b = appendString(b, 7, m.DownloadURL)
	return appendTimestamp(b, 8, m.UploadedAt)
}

func (m *FileRecord) setField(f field) (err error) {
	switch f.num {
	case 1:
		m.ID, err = f.str()
	case 2:
		m.Owner, err = f.str()
	case 3:
		m.FileName, err = f.str()
	case 4:
		m.ContentType, err = f.str()
	case 5:
		m.Size, err = f.int64()
	case 6:
		m.BlobKey, err = f.str()
	case 7:
		m.DownloadURL, err = f.str()
	case 8:
		m.UploadedAt, err = f.timestamp()
	}
	return err
}

func (m *UploadFileResponse) appendWire(b []byte) ([]byte, error) {
	if m.File == nil {
		return b, nil
	}
	return appendMessage(b, 1, m.File)
}

func (m *UploadFileResponse) setField(f field) error {
	if f.num != 1 {
		return nil
	}
	m.File = new(FileRecord)
	return f.message(m.File)
}

func (m *ListFilesResponse) appendWire(b []byte) ([]byte, error) {
	var err error
	for _, rec := range m.Files {
		if rec == nil {
			rec = &FileRecord{}
		}
		if b, err = appendMessage(b, 1, rec); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (m *ListFilesResponse) setField(f field) error {
	if f.num != 1 {
		return nil
	}
	rec := new(FileRecord)
	if err := f.message(rec); err != nil {
		return err
	}
	m.Files = append(m.Files, rec)
	return nil
}

func (m *FileIDRequest) appendWire(b []byte) ([]byte, error) {
	return appendString(b, 1, m.ID), nil
}

func (m *FileIDRequest) setField(f field) (err error) {
	if f.num == 1 {
		m.ID, err = f.str()
	}
	return err
}

func (m *GetFileResponse) appendWire(b []byte) ([]byte, error) {
	if m.File == nil {
		return b, nil
	}
	return appendMessage(b, 1, m.File)
}

func (m *GetFileResponse) setField(f field) error {
	if f.num != 1 {
		return nil
	}
	m.File = new(FileRecord)
	return f.message(m.File)
}

func (m *UserRecord) appendWire(b []byte) ([]byte, error) {
	b = appendString(b, 1, m.Principal)
	b = appendString(b, 2, m.Email)
	b = appendString(b, 3, m.Role)
	b = appendInt64(b, 4, m.StorageUsed)
	b = appendInt64(b, 5, m.StorageLimit)
	b = appendInt64(b, 6, m.FileCount)
	b = appendBool(b, 7, m.Blocked)
	return appendTimestamp(b, 8, m.RegisteredAt)
}

func (m *UserRecord) setField(f field) (err error) {
	switch f.num {
	case 1:
		m.Principal, err = f.str()
	case 2:
		m.Email, err = f.str()
	case 3:
		m.Role, err = f.str()
	case 4:
		m.StorageUsed, err = f.int64()
	case 5:
		m.StorageLimit, err = f.int64()
	case 6:
		m.FileCount, err = f.int64()
	case 7:
		m.Blocked, err = f.bool()
	case 8:
		m.RegisteredAt, err = f.timestamp()
	}
	return err
}

func (m *GetAllUsersResponse) appendWire(b []byte) ([]byte, error) {
	var err error
	for _, u := range m.Users {
		if u == nil {
			u = &UserRecord{}
		}
		if b, err = appendMessage(b, 1, u); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (m *GetAllUsersResponse) setField(f field) error {
	if f.num != 1 {
		return nil
	}
	u := new(UserRecord)
	if err := f.message(u); err != nil {
		return err
	}
	m.Users = append(m.Users, u)
	return nil
}

func (m *BlockUserRequest) appendWire(b []byte) ([]byte, error) {
	b = appendString(b, 1, m.Principal)
	return appendBool(b, 2, m.Blocked), nil
}

func (m *BlockUserRequest) setField(f field) (err error) {
	switch f.num {
	case 1:
		m.Principal, err = f.str()
	case 2:
		m.Blocked, err = f.bool()
	}
	return err
}

func (m *StorageStats) appendWire(b []byte) ([]byte, error) {
	b = appendInt64(b, 1, m.TotalUsers)
	b = appendInt64(b, 2, m.TotalFiles)
	return appendInt64(b, 3, m.TotalBytes), nil
}

func (m *StorageStats) setField(f field) (err error) {
	switch f.num {
	case 1:
		m.TotalUsers, err = f.int64()
	case 2:
		m.TotalFiles, err = f.int64()
	case 3:
		m.TotalBytes, err = f.int64()
	}
	return err
}

func (m *UploadCountResponse) appendWire(b []byte) ([]byte, error) {
	return appendInt64(b, 1, m.Count), nil
}

func (m *UploadCountResponse) setField(f field) (err error) {
	if f.num == 1 {
		m.Count, err = f.int64()
	}
	return err
}
