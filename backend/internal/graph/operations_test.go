package graph

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trustocracy/backend/internal/cypher"
	apperrors "trustocracy/backend/pkg/errors"
)

func TestUser_Found(t *testing.T) {
	repo, runner := newTestRepository(rows(record("user", personNode(7, "Ada"))))

	user, err := repo.User(context.Background(), 7)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, "Ada", user.Name)
	assert.Equal(t, map[string]any{"userId": int64(7)}, runner.last().Params)
	assert.False(t, runner.last().Write)
}

func TestUser_NotFoundIsNil(t *testing.T) {
	repo, _ := newTestRepository()

	user, err := repo.User(context.Background(), 7)
	assert.NoError(t, err)
	assert.Nil(t, user)
}

func TestUser_RejectsInvalidID(t *testing.T) {
	repo, runner := newTestRepository()

	_, err := repo.User(context.Background(), 0)
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeValidation))
	assert.Empty(t, runner.queries, "nothing may reach the database")
}

func TestUserByEmail_RejectsMalformedAddress(t *testing.T) {
	repo, runner := newTestRepository()

	_, err := repo.UserByEmail(context.Background(), "not-an-email' OR 1=1")
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeValidation))
	assert.Empty(t, runner.queries)
}

func TestUserInfo_DecodesNeighbors(t *testing.T) {
	neighbors := []any{
		map[string]any{"relationship": "KNOWS", "friend": personNode(2, "Bo")},
		map[string]any{"relationship": "FOLLOWS", "friend": personNode(3, "Cy")},
	}
	repo, _ := newTestRepository(rows(record(
		"user", personNode(1, "Ada"),
		"emails", []any{"ada@example.com"},
		"neighbors", neighbors,
	)))

	info, err := repo.UserInfo(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, []string{"ada@example.com"}, info.Emails)
	require.Len(t, info.Neighbors, 2)
	assert.Equal(t, "KNOWS", info.Neighbors[0].Relationship)
	assert.Equal(t, int64(3), info.Neighbors[1].Person.ID)
}

func TestUserEmails_EmptyWhenMissing(t *testing.T) {
	repo, _ := newTestRepository()

	emails, err := repo.UserEmails(context.Background(), 1)
	require.NoError(t, err)
	assert.NotNil(t, emails)
	assert.Empty(t, emails)
}

func TestProfile_CombinesInfoAndLocations(t *testing.T) {
	runner := &routingRunner{byName: map[string]*Result{
		"userInfo": rows(record("user", personNode(1, "Ada"), "emails", []any{}, "neighbors", []any{})),
		"locationsByUser": rows(record(
			"location", node("Location", map[string]any{"id": int64(10), "name": "Home"}),
			"country", node("Country", map[string]any{"name": "USA"}),
			"city", node("City", map[string]any{"name": "NYC"}),
			"postal", node("Postal", map[string]any{"name": "10001"}),
		)),
	}}
	repo := NewRepositoryWithRunner(runner, cypher.NewComposer(cypher.DefaultRegistry()))

	profile, err := repo.Profile(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, int64(1), profile.User.ID)
	require.Len(t, profile.Locations, 1)
	assert.Equal(t, Location{ID: 10, Name: "Home", Country: "USA", City: "NYC", Postal: "10001"}, profile.Locations[0])
}

func TestCreateFacebookUser(t *testing.T) {
	repo, runner := newTestRepository(counted(Counters{NodesCreated: 1},
		record("user", neo4j.Node{Labels: []string{"Person"}, Props: map[string]any{"id": int64(5), "name": "Ada", "fbUserId": int64(99)}})))

	user, err := repo.CreateFacebookUser(context.Background(), 5, 99, "Ada")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, int64(99), user.FbUserID)
	assert.True(t, runner.last().Write)
	assert.Equal(t, map[string]any{"id": int64(5), "name": "Ada", "fbUserId": int64(99)}, runner.last().Params["person"])
}

func TestCreateGoogleUser_RequiresNumericID(t *testing.T) {
	repo, runner := newTestRepository()

	_, err := repo.CreateGoogleUser(context.Background(), 5, "abc", "Ada")
	require.Error(t, err)
	assert.Empty(t, runner.queries)
}

func TestAddEmailToUser_UnknownUser(t *testing.T) {
	repo, _ := newTestRepository()

	added, err := repo.AddEmailToUser(context.Background(), 404, "ghost@example.com")
	require.NoError(t, err)
	assert.False(t, added)
}

func TestAddEmailsToGraph_EmptyInputSkipsQuery(t *testing.T) {
	repo, runner := newTestRepository()

	n, err := repo.AddEmailsToGraph(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, runner.queries)
}

func TestImportContacts_OnlyCreatesUnknownAddresses(t *testing.T) {
	repo, runner := newTestRepository(
		rows(record(
			"email", node("Email", map[string]any{"email": "known@example.com"}),
			"owner", []any{"Person"},
		)),
		counted(Counters{NodesCreated: 2, RelationshipsCreated: 1}),
		counted(Counters{RelationshipsCreated: 2}),
	)

	emails := []string{"known@example.com", "new@example.com", "new@example.com"}
	known, err := repo.ImportContacts(context.Background(), 1, emails)
	require.NoError(t, err)
	assert.Equal(t, 2, known)

	require.Len(t, runner.queries, 3)
	assert.Equal(t, "emailsInGraph", runner.queries[0].Name)
	assert.Equal(t, "addEmailsToGraph", runner.queries[1].Name)
	assert.Equal(t, []string{"new@example.com"}, runner.queries[1].Params["emails"])
	assert.Equal(t, "knowAllUnconnectedEmails", runner.queries[2].Name)
	assert.Equal(t, emails, runner.queries[2].Params["emails"])
}

func TestUpgradeContactToPerson(t *testing.T) {
	upgraded := neo4j.Node{Labels: []string{"Person"}, Props: map[string]any{"id": int64(12), "name": "Cy"}}
	repo, runner := newTestRepository(counted(Counters{LabelsAdded: 1, LabelsRemoved: 1}, record("user", upgraded)))

	person, err := repo.UpgradeContactToPerson(context.Background(), "cy@example.com", cypher.Person{ID: 12, Name: "Cy"})
	require.NoError(t, err)
	require.NotNil(t, person)
	assert.Equal(t, []string{"Person"}, person.Labels)
	assert.Equal(t, "cy@example.com", runner.last().Params["email"])
}

func TestCreateOpinion_IsDraft(t *testing.T) {
	repo, runner := newTestRepository(counted(Counters{NodesCreated: 2, RelationshipsCreated: 3}, record(
		"opinion", node("Opinion", map[string]any{"id": int64(100), "created": int64(1700000000000), "text": "hello"}),
		"author", personNode(1, "Ada"),
		"topic", node("Topic", map[string]any{"id": int64(3)}),
		"qualifications", node("Qualifications", map[string]any{"expert": true}),
		"authorship", []any{"THINKS"},
	)))

	opinion, err := repo.CreateOpinion(context.Background(), 1, 3,
		cypher.OpinionDraft{ID: 100, Fields: map[string]any{"text": "hello"}},
		cypher.Qualifications{"expert": true})
	require.NoError(t, err)
	require.NotNil(t, opinion)
	assert.Equal(t, int64(100), opinion.ID)
	assert.Equal(t, int64(3), opinion.TopicID)
	assert.Equal(t, cypher.Draft, opinion.State)
	assert.False(t, opinion.Published)
	assert.Equal(t, "hello", opinion.Fields["text"])
	assert.Equal(t, time.UnixMilli(1700000000000).UTC(), opinion.Created)
	assert.Equal(t, true, opinion.Qualifications["expert"])
	assert.True(t, runner.last().Write)
}

func TestCreateOpinion_MissingTopicIsNil(t *testing.T) {
	repo, _ := newTestRepository()

	opinion, err := repo.CreateOpinion(context.Background(), 1, 3, cypher.OpinionDraft{ID: 100}, nil)
	require.NoError(t, err)
	assert.Nil(t, opinion)
}

func TestCreateOpinion_RejectsUnstorableProperties(t *testing.T) {
	cases := []struct {
		name   string
		fields map[string]any
		q      cypher.Qualifications
		field  string
	}{
		{"nested object", map[string]any{"body": map[string]any{"a": 1}}, nil, "fields"},
		{"mixed list", map[string]any{"tags": []any{"x", 2.0}}, nil, "fields"},
		{"list of objects", map[string]any{"refs": []any{map[string]any{}}}, nil, "fields"},
		{"null in list", map[string]any{"tags": []any{"x", nil}}, nil, "fields"},
		{"nested qualification", map[string]any{"text": "ok"}, cypher.Qualifications{"nested": map[string]any{"b": true}}, "qualifications"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo, runner := newTestRepository()
			_, err := repo.CreateOpinion(context.Background(), 1, 3, cypher.OpinionDraft{ID: 100, Fields: tc.fields}, tc.q)
			require.Error(t, err)
			assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeValidation))
			var invalid *apperrors.ErrInvalidInput
			require.True(t, errors.As(err, &invalid))
			assert.Equal(t, tc.field, invalid.Field)
			assert.Empty(t, runner.queries)
		})
	}
}

func TestCreateOpinion_AcceptsStorableProperties(t *testing.T) {
	repo, runner := newTestRepository()
	fields := map[string]any{
		"text":   "hello",
		"score":  4.5,
		"count":  int64(2),
		"final":  false,
		"tags":   []any{"parks", "trees"},
		"ratios": []float64{0.1, 0.2},
		"empty":  []any{},
		"note":   nil,
	}
	_, err := repo.CreateOpinion(context.Background(), 1, 3, cypher.OpinionDraft{ID: 100, Fields: fields}, cypher.Qualifications{"years": 3.0})
	require.NoError(t, err)
	assert.Len(t, runner.queries, 1)
}

func TestOpinionDraftByUserTopic_DecodesDraft(t *testing.T) {
	repo, runner := newTestRepository(rows(record(
		"opinion", node("Opinion", map[string]any{"id": int64(100), "created": int64(1700000000000), "text": "draft"}),
		"author", personNode(1, "Ada"),
		"topic", node("Topic", map[string]any{"id": int64(3)}),
		"qualifications", node("Qualifications", map[string]any{"resident": true}),
		"authorship", []any{"THINKS"},
	)))

	opinion, err := repo.OpinionDraftByUserTopic(context.Background(), 1, 3)
	require.NoError(t, err)
	require.NotNil(t, opinion)
	assert.Equal(t, int64(100), opinion.ID)
	assert.False(t, opinion.Created.IsZero())
	assert.Equal(t, true, opinion.Qualifications["resident"])
	assert.Equal(t, cypher.Draft, opinion.State)
	assert.Equal(t, int64(1), opinion.Author.ID)
	assert.Equal(t, map[string]any{"userId": int64(1), "topicId": int64(3)}, runner.last().Params)
}

func TestPublishOpinion(t *testing.T) {
	t.Run("with draft edge", func(t *testing.T) {
		repo, _ := newTestRepository(counted(Counters{RelationshipsCreated: 1}, record("id", int64(100))))
		ok, err := repo.PublishOpinion(context.Background(), 1, 100)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("already published", func(t *testing.T) {
		repo, _ := newTestRepository(rows(record("id", int64(100))))
		ok, err := repo.PublishOpinion(context.Background(), 1, 100)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("not the author", func(t *testing.T) {
		repo, _ := newTestRepository()
		ok, err := repo.PublishOpinion(context.Background(), 2, 100)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestUnpublishOpinion_ReportsDeletedEdges(t *testing.T) {
	repo, _ := newTestRepository(counted(Counters{RelationshipsDeleted: 1}), &Result{})

	n, err := repo.UnpublishOpinion(context.Background(), 1, 100)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = repo.UnpublishOpinion(context.Background(), 1, 100)
	require.NoError(t, err)
	assert.Zero(t, n, "unpublishing a draft changes nothing")
}

func TestOpinionByID_PublishedState(t *testing.T) {
	repo, _ := newTestRepository(rows(record(
		"opinion", node("Opinion", map[string]any{"id": int64(100)}),
		"author", personNode(1, "Ada"),
		"topic", nil,
		"qualifications", nil,
		"authorship", []any{"THINKS", "OPINES"},
	)))

	opinion, err := repo.OpinionByID(context.Background(), 100)
	require.NoError(t, err)
	require.NotNil(t, opinion)
	assert.Equal(t, cypher.Published, opinion.State)
	assert.True(t, opinion.Published)
	assert.Zero(t, opinion.TopicID)
	assert.Nil(t, opinion.Qualifications)
}

func TestOpinionsByIDs_EmptyInput(t *testing.T) {
	repo, runner := newTestRepository()

	opinions, err := repo.OpinionsByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, opinions)
	assert.Empty(t, opinions)
	assert.Equal(t, []int64{}, runner.last().Params["ids"])
}

func TestOpinionIDsByTopic(t *testing.T) {
	repo, _ := newTestRepository(rows(record("id", int64(1)), record("id", int64(2))))

	ids, err := repo.OpinionIDsByTopic(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, ids)
}

func TestAuthoredOpinion_UsesTopicEdge(t *testing.T) {
	repo, runner := newTestRepository(rows(record("opinion", node("Opinion", map[string]any{"id": int64(9)}))))

	opinion, err := repo.AuthoredOpinion(context.Background(), 1, 42)
	require.NoError(t, err)
	require.NotNil(t, opinion)
	assert.Equal(t, int64(9), opinion.ID)
	assert.Contains(t, runner.last().Text, "AUTHORED_42")
	assert.Equal(t, cypher.Absent, opinion.State)
}

func TestConnectUserToLocation_UnknownUser(t *testing.T) {
	repo, runner := newTestRepository()

	loc, err := repo.ConnectUserToLocation(context.Background(), 404, 10, cypher.Address{Name: "HQ", Country: "USA", City: "NYC", Postal: "10001"})
	require.NoError(t, err)
	assert.Nil(t, loc)
	assert.Equal(t, "connectUserToLocation", runner.last().Name)
}

func TestConnectUserToLocation_RequiresAddress(t *testing.T) {
	repo, runner := newTestRepository()

	_, err := repo.ConnectUserToLocation(context.Background(), 1, 10, cypher.Address{Name: "HQ"})
	require.Error(t, err)
	assert.Empty(t, runner.queries)
}

func TestRemoveLocation(t *testing.T) {
	repo, _ := newTestRepository(counted(Counters{NodesDeleted: 1, RelationshipsDeleted: 4}), &Result{})

	removed, err := repo.RemoveLocation(context.Background(), 10)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.RemoveLocation(context.Background(), 10)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestPoolOperations(t *testing.T) {
	repo, runner := newTestRepository(
		counted(Counters{RelationshipsCreated: 1}),
		counted(Counters{RelationshipsDeleted: 1}),
	)
	ctx := context.Background()

	added, err := repo.AddToPool(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, added)
	assert.Equal(t, map[string]any{"fromId": int64(1), "toId": int64(2)}, runner.last().Params)

	removed, err := repo.RemoveFromPool(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Contains(t, runner.last().Text, "[r:KNOWS]")
}

func TestAddToPool_RejectsSelf(t *testing.T) {
	repo, runner := newTestRepository()

	_, err := repo.AddToPool(context.Background(), 1, 1)
	require.Error(t, err)
	assert.Empty(t, runner.queries)
}

func TestAddDelegate_UnknownKind(t *testing.T) {
	repo, runner := newTestRepository()

	_, err := repo.AddDelegate(context.Background(), 1, cypher.Delegate{ID: 2, Relationship: "KNOWS]->(x) DETACH DELETE x //"})
	require.Error(t, err)

	var unknown *apperrors.ErrUnknownRelationship
	assert.True(t, errors.As(err, &unknown))
	assert.Empty(t, runner.queries)
}

func TestRemoveDelegate_DeletesOnlyNamedKind(t *testing.T) {
	repo, runner := newTestRepository(counted(Counters{RelationshipsDeleted: 1}))

	n, err := repo.RemoveDelegate(context.Background(), 1, cypher.Delegate{ID: 2, Relationship: "follows"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Contains(t, runner.last().Text, "[r:FOLLOWS]")
	assert.NotContains(t, runner.last().Text, "KNOWS")
}

func TestGetPooled(t *testing.T) {
	repo, _ := newTestRepository(rows(record("user", personNode(2, "Bo")), record("user", personNode(3, "Cy"))))

	pool, err := repo.GetPooled(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, pool, 2)
	assert.Equal(t, "Cy", pool[1].Name)
}

func TestRankDelegates(t *testing.T) {
	repo, runner := newTestRepository()

	require.NoError(t, repo.RankDelegates(context.Background(), 1, []int64{3, 2}))
	assert.Equal(t, []int64{3, 2}, runner.last().Params["targetIds"])
	assert.True(t, runner.last().Write)
}

func TestTopics(t *testing.T) {
	repo, _ := newTestRepository(rows(
		record("topic", node("Topic", map[string]any{"id": int64(1), "name": "Parks"}), "opinionCount", int64(2), "lastUpdated", int64(1700000000000)),
		record("topic", node("Topic", map[string]any{"id": int64(2), "name": "Roads"}), "opinionCount", int64(0), "lastUpdated", nil),
	))

	topics, err := repo.Topics(context.Background())
	require.NoError(t, err)
	require.Len(t, topics, 2)
	assert.Equal(t, int64(2), topics[0].OpinionCount)
	assert.False(t, topics[0].LastUpdated.IsZero())
	assert.Zero(t, topics[1].OpinionCount)
	assert.True(t, topics[1].LastUpdated.IsZero())
}

func TestCreateTopic(t *testing.T) {
	repo, runner := newTestRepository(counted(Counters{NodesCreated: 1},
		record("topic", node("Topic", map[string]any{"id": int64(4), "name": "Schools"}), "opinionCount", int64(0), "lastUpdated", nil)))

	topic, err := repo.CreateTopic(context.Background(), 4, "Schools")
	require.NoError(t, err)
	require.NotNil(t, topic)
	assert.Equal(t, "Schools", topic.Name)
	assert.Equal(t, map[string]any{"topicId": int64(4), "name": "Schools"}, runner.last().Params)
}

func TestNearest(t *testing.T) {
	repo, _ := newTestRepository(rows(record(
		"relationship", "FOLLOWS",
		"friend", personNode(2, "Bo"),
		"path", []any{"FOLLOWS"},
		"author", personNode(3, "Cy"),
		"opinion", node("Opinion", map[string]any{"id": int64(100)}),
	)))

	paths, err := repo.Nearest(context.Background(), 1, 7)
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.Equal(t, "FOLLOWS", paths[0].Relationship)
	assert.Equal(t, []string{"FOLLOWS"}, paths[0].Path)
	assert.Equal(t, int64(3), paths[0].Author.ID)
	assert.Equal(t, int64(100), paths[0].Opinion.ID)
}

func TestConnected_GroupsConnections(t *testing.T) {
	repo, _ := newTestRepository(rows(record(
		"opinion", node("Opinion", map[string]any{"id": int64(100)}),
		"author", personNode(3, "Cy"),
		"connections", []any{
			map[string]any{"relationship": "FOLLOWS", "friend": personNode(2, "Bo"), "path": []any{"FOLLOWS"}},
			map[string]any{"relationship": "FOLLOWS", "friend": personNode(3, "Cy"), "path": []any{}},
		},
		"qualifications", nil,
	)))

	opinions, err := repo.Connected(context.Background(), 1, 7)
	require.NoError(t, err)
	require.Len(t, opinions, 1)
	assert.True(t, opinions[0].Opinion.Published)
	require.Len(t, opinions[0].Connections, 2)
	assert.Empty(t, opinions[0].Connections[1].Path)
}

func TestProcedures_ReturnRowsAsMaps(t *testing.T) {
	repo, runner := newTestRepository(rows(record("friend", int64(2), "score", 0.5)))

	rowsOut, err := repo.MeasureInfluence(context.Background(), 1, 7)
	require.NoError(t, err)
	require.Len(t, rowsOut, 1)
	assert.Equal(t, 0.5, rowsOut[0]["score"])
	assert.Equal(t, map[string]any{"userId": int64(1), "topicId": int64(7)}, runner.last().Params)
}

func TestRun_WrapsDriverErrors(t *testing.T) {
	repo, runner := newTestRepository()
	runner.err = errors.New("connection reset")

	_, err := repo.Topics(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeGraph))

	var failed *apperrors.ErrGraphQueryFailed
	require.True(t, errors.As(err, &failed))
	assert.Equal(t, "topics", failed.Operation)
}

func TestRun_CancelledContext(t *testing.T) {
	repo, _ := newTestRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Topics(ctx)
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeContext))
}

// routingRunner answers by query name, for operations that fan out.
type routingRunner struct {
	byName map[string]*Result
}

func (r *routingRunner) Run(ctx context.Context, q cypher.Query) (*Result, error) {
	if res, ok := r.byName[q.Name]; ok {
		return res, nil
	}
	return &Result{}, nil
}
