package hush

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietdv277/hush/internal/encryption"
	"github.com/vietdv277/hush/internal/envfile"
	"github.com/vietdv277/hush/internal/ledger"
	"github.com/vietdv277/hush/internal/logging"
	"github.com/vietdv277/hush/internal/payload"
	"github.com/vietdv277/hush/internal/policy"
	"github.com/vietdv277/hush/pkg/provider"
	"github.com/vietdv277/hush/pkg/types"
)

var fixedNow = time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)

type fakeStore struct {
	secrets  map[string]string
	policies map[string]string
	created  []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{secrets: map[string]string{}, policies: map[string]string{}}
}

func notFound(id string) error {
	return &provider.RemoteError{Kind: provider.KindNotFound, Code: "ResourceNotFoundException", Err: os.ErrNotExist}
}

func (f *fakeStore) GetSecretValue(_ context.Context, id string) (*provider.SecretValue, error) {
	raw, ok := f.secrets[id]
	if !ok {
		return nil, notFound(id)
	}
	return &provider.SecretValue{Name: id, SecretString: raw}, nil
}

func (f *fakeStore) PutSecretValue(_ context.Context, id, value string) error {
	if _, ok := f.secrets[id]; !ok {
		return notFound(id)
	}
	f.secrets[id] = value
	return nil
}

func (f *fakeStore) CreateSecret(_ context.Context, name, value string) error {
	f.secrets[name] = value
	f.created = append(f.created, name)
	return nil
}

func (f *fakeStore) DeleteSecret(_ context.Context, id string, forceNow bool) (time.Time, error) {
	if _, ok := f.secrets[id]; !ok {
		return time.Time{}, notFound(id)
	}
	delete(f.secrets, id)
	if forceNow {
		return fixedNow, nil
	}
	return fixedNow.AddDate(0, 0, 30), nil
}

func (f *fakeStore) ListSecrets(context.Context) ([]types.SecretListing, error) {
	var listings []types.SecretListing
	for name := range f.secrets {
		listings = append(listings, types.SecretListing{Name: name, UpdatedAt: fixedNow})
	}
	sort.Slice(listings, func(i, j int) bool { return listings[i].Name > listings[j].Name })
	return listings, nil
}

func (f *fakeStore) GetResourcePolicy(_ context.Context, id string) (string, error) {
	if _, ok := f.secrets[id]; !ok {
		return "", notFound(id)
	}
	return f.policies[id], nil
}

func (f *fakeStore) PutResourcePolicy(_ context.Context, id, raw string) error {
	if strings.Contains(raw, "ghost") {
		return &provider.RemoteError{Kind: provider.KindMalformedPolicy, Code: "MalformedPolicyDocumentException"}
	}
	f.policies[id] = raw
	return nil
}

type fakeIdentity struct{}

func (fakeIdentity) CallerARN(context.Context) (string, error) {
	return "arn:aws:iam::123456789876:user/alice", nil
}

func (fakeIdentity) ResolvePrincipal(_ context.Context, identifier string) (string, error) {
	if strings.HasPrefix(identifier, "arn:") {
		return identifier, nil
	}
	return "arn:aws:iam::123456789876:user/" + identifier, nil
}

type fixture struct {
	svc   *Service
	store *fakeStore
	dir   string
	warns *bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	color.NoColor = true

	dir := t.TempDir()
	warns := &bytes.Buffer{}
	log := &logging.Logger{Out: &bytes.Buffer{}, Err: warns}
	store := newFakeStore()

	return &fixture{
		svc: &Service{
			Store:     store,
			Identity:  fakeIdentity{},
			Ledger:    ledger.New(filepath.Join(dir, ledger.DefaultFile), log),
			Encrypter: encryption.New(""),
			Log:       log,
			Prefix:    "hush",
			Now:       func() time.Time { return fixedNow },
		},
		store: store,
		dir:   dir,
		warns: warns,
	}
}

func (f *fixture) envFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(f.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func (f *fixture) remote(t *testing.T, id string) *payload.SecretPayload {
	t.Helper()
	p, err := payload.Decode(f.store.secrets[id])
	require.NoError(t, err)
	return p
}

func TestSecretID(t *testing.T) {
	assert.Equal(t, "hush-api", SecretID("hush", "api"))
	assert.Equal(t, "team-api", SecretID("team", "api"))
	assert.Equal(t, "hush-api", SecretID("", "api"))
}

func TestPush_ForceCreatesSecret(t *testing.T) {
	f := newFixture(t)
	env := f.envFile(t, ".env", "HUDE=FUDE")

	result, err := f.svc.Push(context.Background(), PushInput{Key: "test", EnvFile: env, Force: true, Message: "uploaded by tester"})
	require.NoError(t, err)

	assert.False(t, result.Blocked)
	assert.True(t, result.Created)
	assert.Equal(t, []string{"hush-test"}, f.store.created)

	p := f.remote(t, "hush-test")
	require.Len(t, p.Secrets, 1)
	assert.Equal(t, envfile.Entry{Key: "HUDE", Value: "FUDE"}, p.Secrets[0])
	assert.Positive(t, p.Version)
	assert.Equal(t, "uploaded by tester", p.Message)
	assert.Equal(t, fixedNow, p.UpdatedAt)

	versions, err := f.svc.Ledger.Read()
	require.NoError(t, err)
	assert.Equal(t, p.Version, versions["hush-test"].Version)
}

func TestPush_BlockedWithoutLedger(t *testing.T) {
	f := newFixture(t)
	env := f.envFile(t, ".env", "A=1")

	result, err := f.svc.Push(context.Background(), PushInput{Key: "test", EnvFile: env})
	require.NoError(t, err)

	assert.True(t, result.Blocked)
	assert.Empty(t, f.store.secrets)
	assert.Contains(t, f.warns.String(), "No .hushrc.json file exists")
}

func TestPush_IncrementsVersion(t *testing.T) {
	f := newFixture(t)
	env := f.envFile(t, ".env", "A=1")
	ctx := context.Background()

	_, err := f.svc.Push(ctx, PushInput{Key: "test", EnvFile: env, Force: true})
	require.NoError(t, err)

	result, err := f.svc.Push(ctx, PushInput{Key: "test", EnvFile: env})
	require.NoError(t, err)
	assert.False(t, result.Blocked)
	assert.False(t, result.Created)
	assert.Equal(t, 2, result.Version)
	assert.Equal(t, 2, f.remote(t, "hush-test").Version)
}

func TestPush_BlockedWhenRemoteAhead(t *testing.T) {
	f := newFixture(t)
	env := f.envFile(t, ".env", "A=1")
	f.store.secrets["hush-test"] = `{"message":"m","version":3,"updated_at":"2026-01-01T00:00:00Z","secrets":[]}`
	f.svc.Ledger.UpdateVersionsFile("hush-test", 2)

	result, err := f.svc.Push(context.Background(), PushInput{Key: "test", EnvFile: env})
	require.NoError(t, err)
	assert.True(t, result.Blocked)
	assert.Equal(t, 3, f.remote(t, "hush-test").Version)
	assert.Contains(t, f.warns.String(), `Remote version (3) is greater than your local version (2) for key "hush-test"`)
}

func TestPush_LegacyRemoteBecomesVersionOne(t *testing.T) {
	f := newFixture(t)
	env := f.envFile(t, ".env", "A=1")
	f.store.secrets["hush-test"] = `[{"key":"A","value":"0"}]`

	result, err := f.svc.Push(context.Background(), PushInput{Key: "test", EnvFile: env, Force: true})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Version)
}

func TestPush_MissingEnvFile(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Push(context.Background(), PushInput{Key: "test", EnvFile: filepath.Join(f.dir, "missing"), Force: true})
	assert.ErrorIs(t, err, envfile.ErrFileRead)
}

func TestPush_Encrypted(t *testing.T) {
	f := newFixture(t)
	env := f.envFile(t, ".env", "TOKEN=abc=def")
	ctx := context.Background()

	_, err := f.svc.Push(ctx, PushInput{Key: "test", EnvFile: env, Force: true, Password: "pw"})
	require.NoError(t, err)
	assert.True(t, payload.IsEncrypted(f.store.secrets["hush-test"]))

	p, err := f.svc.Cat(ctx, CatInput{Key: "test", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, []envfile.Entry{{Key: "TOKEN", Value: "abc=def"}}, p.Secrets)

	_, err = f.svc.Cat(ctx, CatInput{Key: "test"})
	assert.ErrorIs(t, err, ErrPasswordRequired)

	_, err = f.svc.Cat(ctx, CatInput{Key: "test", Password: "wrong"})
	assert.ErrorIs(t, err, encryption.ErrDecrypt)
}

func TestDecodeDecrypted_GarbageMeansWrongPassword(t *testing.T) {
	_, err := decodeDecrypted("\xff\xfe\x01garbage")
	assert.ErrorIs(t, err, encryption.ErrDecrypt)
	assert.ErrorIs(t, err, payload.ErrMalformed)

	p, err := decodeDecrypted(`[{"key":"A","value":"1"}]`)
	require.NoError(t, err)
	assert.Equal(t, []envfile.Entry{{Key: "A", Value: "1"}}, p.Secrets)
}

func TestPush_EncryptedRemoteNeedsPassword(t *testing.T) {
	f := newFixture(t)
	env := f.envFile(t, ".env", "A=1")
	ctx := context.Background()

	_, err := f.svc.Push(ctx, PushInput{Key: "test", EnvFile: env, Force: true, Password: "pw"})
	require.NoError(t, err)
	before := f.store.secrets["hush-test"]

	_, err = f.svc.Push(ctx, PushInput{Key: "test", EnvFile: env, Force: true})
	assert.ErrorIs(t, err, ErrPasswordRequired)
	assert.Equal(t, before, f.store.secrets["hush-test"])
}

func TestPull_WritesFileAndLedger(t *testing.T) {
	f := newFixture(t)
	f.store.secrets["hush-test"] = `{"message":"m","version":4,"updated_at":"2026-01-01T00:00:00Z","secrets":[{"key":"A","value":"1"},{"key":"B","value":"x=y"}]}`
	env := filepath.Join(f.dir, ".env")

	result, err := f.svc.Pull(context.Background(), PullInput{Key: "test", EnvFile: env})
	require.NoError(t, err)
	assert.True(t, result.Written())

	data, err := os.ReadFile(env)
	require.NoError(t, err)
	assert.Equal(t, "A=\"1\"\nB=\"x=y\"", string(data))

	versions, err := f.svc.Ledger.Read()
	require.NoError(t, err)
	assert.Equal(t, 4, versions["hush-test"].Version)
}

func TestPull_ReturnsDiffInsteadOfOverwriting(t *testing.T) {
	f := newFixture(t)
	f.store.secrets["hush-test"] = `[{"key":"A","value":"2"},{"key":"C","value":"3"}]`
	env := f.envFile(t, ".env", "A=1\nB=2")

	result, err := f.svc.Pull(context.Background(), PullInput{Key: "test", EnvFile: env})
	require.NoError(t, err)
	require.False(t, result.Written())
	assert.Equal(t, []string{`A="2"`}, result.Diff.Changed)
	assert.Equal(t, []string{`C="3"`}, result.Diff.Added)
	assert.Equal(t, []string{`B="2"`}, result.Diff.Removed)

	data, err := os.ReadFile(env)
	require.NoError(t, err)
	assert.Equal(t, "A=1\nB=2", string(data))
	assert.NoFileExists(t, f.svc.Ledger.Path())
}

func TestPull_ForceOverwrites(t *testing.T) {
	f := newFixture(t)
	f.store.secrets["hush-test"] = `[{"key":"A","value":"2"}]`
	env := f.envFile(t, ".env", "A=1")

	result, err := f.svc.Pull(context.Background(), PullInput{Key: "test", EnvFile: env, Force: true})
	require.NoError(t, err)
	assert.True(t, result.Written())

	entries, err := envfile.ReadEntries(env)
	require.NoError(t, err)
	assert.Equal(t, []envfile.Entry{{Key: "A", Value: "2"}}, entries)
}

func TestPull_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Pull(context.Background(), PullInput{Key: "nope", EnvFile: filepath.Join(f.dir, ".env")})
	require.Error(t, err)
	assert.Equal(t, "AWS SecretManager could not find hush-nope. Are you sure it exists and you have read access?", err.Error())
	assert.Equal(t, provider.KindNotFound, provider.KindOf(err))
}

func TestPushThenPull_RoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	src := f.envFile(t, "src.env", "# comment\nDB_URL=postgres://u:p@h/db?sslmode=disable\n\nAPI_KEY=\"abc==\"\n")
	dst := filepath.Join(f.dir, "dst.env")

	_, err := f.svc.Push(ctx, PushInput{Key: "app", EnvFile: src, Force: true})
	require.NoError(t, err)

	_, err = f.svc.Pull(ctx, PullInput{Key: "app", EnvFile: dst})
	require.NoError(t, err)

	want, err := envfile.ReadEntries(src)
	require.NoError(t, err)
	got, err := envfile.ReadEntries(dst)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	again, err := f.svc.Pull(ctx, PullInput{Key: "app", EnvFile: dst})
	require.NoError(t, err)
	assert.True(t, again.Written())
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.secrets["hush-test"] = `[]`
	f.svc.Ledger.UpdateVersionsFile("hush-test", 1)

	result, err := f.svc.Delete(ctx, DeleteInput{Key: "test"})
	require.NoError(t, err)
	assert.True(t, result.Scheduled())
	assert.Equal(t, fixedNow.AddDate(0, 0, 30), result.DeletionDate)

	versions, err := f.svc.Ledger.Read()
	require.NoError(t, err)
	assert.NotContains(t, versions, "hush-test")
}

func TestDelete_Force(t *testing.T) {
	f := newFixture(t)
	f.store.secrets["hush-test"] = `[]`

	result, err := f.svc.Delete(context.Background(), DeleteInput{Key: "test", Force: true})
	require.NoError(t, err)
	assert.False(t, result.Scheduled())
}

func TestDelete_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Delete(context.Background(), DeleteInput{Key: "test"})
	require.Error(t, err)
	assert.Equal(t, "Secret with key hush-test could not be deleted because it was not found.", err.Error())
}

func TestList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.secrets["hush-b"] = `{"message":"second","version":2,"updated_at":"2026-01-02T00:00:00Z","secrets":[{"key":"A","value":"1"}]}`
	f.store.secrets["hush-a"] = `[{"key":"A","value":"1"},{"key":"B","value":"2"}]`
	f.store.secrets["other-c"] = `[]`

	env := f.envFile(t, ".env", "X=1")
	_, err := f.svc.Push(ctx, PushInput{Key: "enc", EnvFile: env, Force: true, Password: "pw"})
	require.NoError(t, err)

	summaries, err := f.svc.List(ctx, ListInput{})
	require.NoError(t, err)
	require.Len(t, summaries, 3)

	assert.Equal(t, "hush-a", summaries[0].Name)
	assert.Equal(t, payload.LegacyMessage, summaries[0].Message)
	assert.Equal(t, 2, summaries[0].Count)

	assert.Equal(t, "hush-b", summaries[1].Name)
	assert.Equal(t, "second", summaries[1].Message)
	assert.Equal(t, 1, summaries[1].Count)

	assert.Equal(t, "hush-enc", summaries[2].Name)
	assert.True(t, summaries[2].Encrypted)
	assert.Equal(t, -1, summaries[2].Count)

	summaries, err = f.svc.List(ctx, ListInput{Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, 1, summaries[2].Count)
	assert.True(t, summaries[2].Encrypted)

	keys, err := f.svc.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "enc"}, keys)
}

func TestList_MalformedSecretWarns(t *testing.T) {
	f := newFixture(t)
	f.store.secrets["hush-bad"] = `not json`

	summaries, err := f.svc.List(context.Background(), ListInput{})
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, -1, summaries[0].Count)
	assert.Contains(t, f.warns.String(), "Could not decode secret hush-bad")
}

func TestGrantAndRevoke(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.secrets["hush-test"] = `[]`

	result, err := f.svc.Grant(ctx, AccessInput{Key: "test", Identity: "bob"})
	require.NoError(t, err)
	assert.False(t, result.AlreadyGranted)
	assert.Equal(t, "arn:aws:iam::123456789876:user/bob", result.Principal)

	doc, err := policy.Parse(f.store.policies["hush-test"])
	require.NoError(t, err)
	_, ok := doc.FindStatementByPrincipal(result.Principal)
	assert.True(t, ok)

	again, err := f.svc.Grant(ctx, AccessInput{Key: "test", Identity: "bob"})
	require.NoError(t, err)
	assert.True(t, again.AlreadyGranted)

	_, err = f.svc.Revoke(ctx, AccessInput{Key: "test", Identity: "bob"})
	require.NoError(t, err)

	doc, err = policy.Parse(f.store.policies["hush-test"])
	require.NoError(t, err)
	assert.Empty(t, doc.Statements)

	_, err = f.svc.Revoke(ctx, AccessInput{Key: "test", Identity: "bob"})
	require.ErrorIs(t, err, ErrNotGranted)
	assert.Equal(t, "User arn:aws:iam::123456789876:user/bob does not have access to secret hush-test. Access could not be revoked.", err.Error())
}

func TestGrantAndRevoke_KeepExistingPolicy(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	existing := `{"Version":"2012-10-17","Statement":[` +
		`{"Effect":"Allow","Principal":{"AWS":"arn:aws:iam::123456789876:root"},"Action":"secretsmanager:GetSecretValue","Resource":"*","Condition":{"IpAddress":{"aws:SourceIp":"203.0.113.0/24"}}},` +
		`{"Effect":"Allow","Principal":"*","Action":"secretsmanager:DescribeSecret","Resource":"*"},` +
		`{"Effect":"Allow","Principal":{"Service":"lambda.amazonaws.com"},"Action":"secretsmanager:GetSecretValue","Resource":"*"}]}`
	f.store.secrets["hush-test"] = `[]`
	f.store.policies["hush-test"] = existing

	_, err := f.svc.Grant(ctx, AccessInput{Key: "test", Identity: "bob"})
	require.NoError(t, err)
	assert.Contains(t, f.store.policies["hush-test"], `"Condition":{"IpAddress":{"aws:SourceIp":"203.0.113.0/24"}}`)

	_, err = f.svc.Revoke(ctx, AccessInput{Key: "test", Identity: "bob"})
	require.NoError(t, err)
	assert.Equal(t, existing, f.store.policies["hush-test"])
}

func TestGrant_UnknownSecret(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Grant(context.Background(), AccessInput{Key: "test", Identity: "bob"})
	require.Error(t, err)
	assert.Equal(t, "Could not find secret hush-test.", err.Error())
}

func TestGrant_UnknownPrincipal(t *testing.T) {
	f := newFixture(t)
	f.store.secrets["hush-test"] = `[]`

	_, err := f.svc.Grant(context.Background(), AccessInput{Key: "test", Identity: "ghost"})
	require.Error(t, err)
	assert.Equal(t, "Could not grant access to secret hush-test because the user with the ARN arn:aws:iam::123456789876:user/ghost could not be found.", err.Error())
	assert.Equal(t, provider.KindMalformedPolicy, provider.KindOf(err))
}
