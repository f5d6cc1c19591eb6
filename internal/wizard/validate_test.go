package wizard

import (
	"strings"
	"testing"

	"github.com/specialistvlad/pcwizard/internal/docpath"
	"github.com/specialistvlad/pcwizard/internal/queues"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validSession returns a session that passes every step validator.
func validSession(t *testing.T, v queues.Variant) *Session {
	t.Helper()
	s := newTestSession(t, v)
	require.NoError(t, s.InitState(nil, "eu-west-1"))
	require.NoError(t, s.ClusterName().Write("demo"))
	require.NoError(t, s.Vpc().Write("vpc-a"))
	require.NoError(t, s.HeadNodeSubnet().Write("subnet-a1"))
	require.NoError(t, s.Store().Set(QueuePath(0).Append("Networking", "SubnetIds"), []string{"subnet-a1"}))
	return s
}

func TestValidateAll_ValidSession(t *testing.T) {
	for _, v := range []queues.Variant{queues.Single{}, queues.Multi{}} {
		t.Run(v.Name(), func(t *testing.T) {
			s := validSession(t, v)

			assert.True(t, s.ValidateAll())
			assert.False(t, s.HasErrors())
			assert.Empty(t, s.Messages())
			assert.True(t, s.Validated(StepCluster))
			assert.True(t, s.Validated(StepHeadNode))
			assert.True(t, s.Validated(StepQueues))
		})
	}
}

func TestValidateAll_RegionGating(t *testing.T) {
	s := validSession(t, queues.Single{})
	require.NoError(t, s.Region().Write(""))

	assert.False(t, s.ValidateAll())
	assert.Equal(t, MsgRegionRequired, s.ErrorAt(RegionErrorPath))
	assert.True(t, s.HasErrors())

	require.NoError(t, s.Region().Write("eu-west-1"))

	assert.True(t, s.ValidateAll())
	assert.Empty(t, s.ErrorAt(RegionErrorPath))
	assert.False(t, s.HasErrors())
}

func TestValidateCluster_Editing(t *testing.T) {
	s := validSession(t, queues.Single{})
	require.NoError(t, s.Editing().Write(true))
	require.NoError(t, s.Region().Write(""))
	require.NoError(t, s.Vpc().Write(""))
	require.NoError(t, s.ClusterName().Write("1-not-a-valid-name"))

	assert.True(t, s.ValidateCluster())
	assert.Empty(t, s.ErrorAt(RegionErrorPath))
	assert.Empty(t, s.ErrorAt(VpcErrorPath))
	assert.Empty(t, s.ErrorAt(ClusterNameErrorPath))
}

func TestValidateCluster_Vpc(t *testing.T) {
	s := validSession(t, queues.Single{})
	require.NoError(t, s.Vpc().Write(""))

	assert.False(t, s.ValidateCluster())
	assert.Equal(t, MsgVpcRequired, s.ErrorAt(VpcErrorPath))
}

func TestValidateCluster_CustomAmi(t *testing.T) {
	s := validSession(t, queues.Single{})
	require.NoError(t, s.SetCustomAMI(true))

	assert.False(t, s.ValidateCluster())
	assert.Equal(t, MsgCustomAmiRequired, s.ErrorAt(CustomAmiErrorPath))

	require.NoError(t, s.CustomAMI().Write("ami-0123"))
	assert.True(t, s.ValidateCluster())
	assert.Empty(t, s.ErrorAt(CustomAmiErrorPath))
}

func TestValidateCluster_ClusterName(t *testing.T) {
	testCases := []struct {
		name string
		want string
	}{
		{"demo-1", ""},
		{"", MsgClusterNameRequired},
		{"x", MsgClusterNameFormat},
		{"1cluster", MsgClusterNameFormat},
		{"my_cluster", MsgClusterNameFormat},
		{"a" + strings.Repeat("b", 60), MsgClusterNameTooLong},
		{"prod", MsgClusterNameExists},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := validSession(t, queues.Single{})
			require.NoError(t, s.SetExistingClusters([]string{"prod", "staging"}))
			require.NoError(t, s.ClusterName().Write(tc.name))

			assert.Equal(t, tc.want == "", s.ValidateCluster())
			assert.Equal(t, tc.want, s.ErrorAt(ClusterNameErrorPath))
		})
	}
}

func TestValidateCluster_MultiUser(t *testing.T) {
	s := validSession(t, queues.Single{})
	require.NoError(t, s.SetMultiUser(true))
	require.NoError(t, s.Store().Set(DirectoryServicePath, map[string]any{
		"DomainName": "corp.example.com",
		"DomainAddr": "ldaps://corp.example.com",
	}))

	assert.False(t, s.ValidateCluster())
	assert.Equal(t, map[string]any{
		"passwordSecretArn":  MsgDirectorySecretRequired,
		"domainReadOnlyUser": MsgDomainReadOnlyUserRequired,
	}, s.get(MultiUserErrorPath))

	require.NoError(t, s.SetMultiUser(false))
	assert.True(t, s.ValidateCluster())
	assert.Nil(t, s.get(MultiUserErrorPath))
}

func TestValidateCluster_SlurmAccounting(t *testing.T) {
	validArn := "arn:aws:secretsmanager:eu-west-1:123456789012:secret:slurmdb-AbCdEf"
	testCases := []struct {
		name     string
		database map[string]any
		want     map[string]any
	}{
		{
			name:     "not configured",
			database: nil,
			want:     nil,
		},
		{
			name:     "complete",
			database: map[string]any{"Uri": "db.example.com:3306", "UserName": "admin", "PasswordSecretArn": validArn},
			want:     nil,
		},
		{
			name:     "only uri",
			database: map[string]any{"Uri": "db.example.com:3306"},
			want: map[string]any{
				"userName":          MsgDatabaseUserRequired,
				"passwordSecretArn": MsgDatabaseSecretRequired,
			},
		},
		{
			name:     "secret is not a secrets manager arn",
			database: map[string]any{"Uri": "db.example.com:3306", "UserName": "admin", "PasswordSecretArn": "arn:aws:ssm:eu-west-1:123456789012:parameter/x"},
			want:     map[string]any{"passwordSecretArn": MsgDatabaseSecretInvalidArn},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := validSession(t, queues.Single{})
			if tc.database != nil {
				require.NoError(t, s.Store().Set(DatabasePath, tc.database))
			}

			assert.Equal(t, tc.want == nil, s.ValidateCluster())
			if tc.want == nil {
				assert.Nil(t, s.get(AccountingErrorPath))
				return
			}
			assert.Equal(t, tc.want, s.get(AccountingErrorPath))
		})
	}
}

func TestValidateHeadNode(t *testing.T) {
	s := validSession(t, queues.Single{})
	require.NoError(t, s.HeadNodeSubnet().Write(""))
	require.NoError(t, s.HeadNodeInstanceType().Write(""))

	assert.False(t, s.ValidateHeadNode())
	assert.Equal(t, MsgHeadNodeTypeRequired, s.ErrorAt(HeadNodeTypeErrorPath))
	assert.Equal(t, MsgHeadNodeSubnetRequired, s.ErrorAt(HeadNodeSubnetErrorPath))
}

func TestValidateQueues(t *testing.T) {
	t.Run("duplicate instance types flag the later entry", func(t *testing.T) {
		s := validSession(t, queues.Single{})
		q := s.Queue(0)
		for i := 0; i < 2; i++ {
			_, err := q.Add()
			require.NoError(t, err)
		}
		require.NoError(t, q.SetInstanceType(0, "A"))
		require.NoError(t, q.SetInstanceType(1, "A"))
		require.NoError(t, q.SetInstanceType(2, "B"))

		assert.False(t, s.ValidateQueues())
		assert.Equal(t, []Message{{
			Path: QueueErrorPath(0).Append("computeResources", 1),
			Text: queues.MsgInstanceTypeUnique,
		}}, s.Messages())
	})

	t.Run("queue names", func(t *testing.T) {
		s := validSession(t, queues.Single{})
		for i := 0; i < 3; i++ {
			_, err := s.AddQueue()
			require.NoError(t, err)
		}
		require.NoError(t, s.Queue(1).RenameQueue("queue-1"))
		require.NoError(t, s.Queue(2).RenameQueue("GPU"))
		require.NoError(t, s.Queue(3).RenameQueue(strings.Repeat("q", 26)))

		assert.False(t, s.ValidateQueues())
		assert.Empty(t, s.ErrorAt(QueueErrorPath(0).Child("name")))
		assert.Equal(t, MsgQueueNameDuplicate, s.ErrorAt(QueueErrorPath(1).Child("name")))
		assert.Equal(t, MsgQueueNameFormat, s.ErrorAt(QueueErrorPath(2).Child("name")))
		assert.Equal(t, MsgQueueNameTooLong, s.ErrorAt(QueueErrorPath(3).Child("name")))
	})

	t.Run("subnet and compute resources required", func(t *testing.T) {
		s := validSession(t, queues.Single{})
		require.NoError(t, s.Store().Clear(QueuePath(0).Child("Networking")))
		require.NoError(t, s.Queue(0).Remove(0))

		assert.False(t, s.ValidateQueues())
		assert.Equal(t, MsgQueueSubnetRequired, s.ErrorAt(QueueErrorPath(0).Child("subnet")))
		assert.Equal(t, MsgComputeResourcesRequired, s.ErrorAt(QueueErrorPath(0).Child("computeResourceCount")))
	})

	t.Run("no queues", func(t *testing.T) {
		s := validSession(t, queues.Single{})
		require.NoError(t, s.RemoveQueue(0))

		assert.False(t, s.ValidateQueues())
		assert.Equal(t, MsgQueueListEmpty, s.ErrorAt(QueueListErrorPath))
	})

	t.Run("count range", func(t *testing.T) {
		s := validSession(t, queues.Single{})
		require.NoError(t, s.Store().Set(QueuePath(0).Append("ComputeResources", 0, "MinCount"), 9))

		assert.False(t, s.ValidateQueues())
		assert.Equal(t, queues.MsgCountRange, s.ErrorAt(QueueErrorPath(0).Append("computeResources", 0)))
	})
}

func TestValidators_ClearStaleMessages(t *testing.T) {
	s := validSession(t, queues.Single{})
	q := s.Queue(0)
	_, err := q.Add()
	require.NoError(t, err)
	require.NoError(t, q.SetInstanceType(1, queues.DefaultInstanceType))
	require.NoError(t, s.ClusterName().Write(""))

	require.False(t, s.ValidateAll())
	require.Len(t, s.Messages(), 2)

	require.NoError(t, q.SetInstanceType(1, "t2.micro"))
	require.NoError(t, s.ClusterName().Write("demo"))

	assert.True(t, s.ValidateAll())
	assert.Empty(t, s.Messages())
	assert.False(t, s.HasErrors())
}

func TestMessages_Ordered(t *testing.T) {
	s := newTestSession(t, queues.Single{})
	require.NoError(t, s.Store().Set(VpcErrorPath, "b"))
	require.NoError(t, s.Store().Set(RegionErrorPath, "a"))
	require.NoError(t, s.Store().Set(HeadNodeSubnetErrorPath, ""))

	assert.Equal(t, []Message{
		{Path: docpath.MustParse("wizard.errors.cluster.region"), Text: "a"},
		{Path: docpath.MustParse("wizard.errors.cluster.vpc"), Text: "b"},
	}, s.Messages())
}
