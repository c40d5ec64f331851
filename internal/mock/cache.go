package mock

import "context"

// Cache implements port.Cache for tests.
type Cache struct {
	// stored values
	StatusOut  []byte
	EtagStatus string

	// errors
	GetStatusErr     error
	GetEtagStatusErr error
	DelStatusErr     error

	// captured inputs
	SetStatusData []byte
	SetStatusEtag string
	GotJobName    string

	// call flags
	GetStatusCalled     bool
	GetEtagStatusCalled bool
	SetStatusCalled     bool
	SetEtagStatusCalled bool
	DelStatusCalled     bool
}

func (c *Cache) GetTranscriptionStatus(ctx context.Context, jobName string) ([]byte, error) {
	c.GetStatusCalled = true
	c.GotJobName = jobName
	if c.GetStatusErr != nil {
		return nil, c.GetStatusErr
	}
	return c.StatusOut, nil
}

func (c *Cache) GetEtagTranscriptionStatus(ctx context.Context, jobName string) (string, error) {
	c.GetEtagStatusCalled = true
	if c.GetEtagStatusErr != nil {
		return "", c.GetEtagStatusErr
	}
	return c.EtagStatus, nil
}

func (c *Cache) SetTranscriptionStatus(ctx context.Context, jobName string, data []byte) {
	c.SetStatusCalled = true
	c.SetStatusData = data
}

func (c *Cache) SetEtagTranscriptionStatus(ctx context.Context, jobName string, etag string) {
	c.SetEtagStatusCalled = true
	c.SetStatusEtag = etag
}

func (c *Cache) DeleteTranscriptionStatus(ctx context.Context, jobName string) error {
	c.DelStatusCalled = true
	return c.DelStatusErr
}
