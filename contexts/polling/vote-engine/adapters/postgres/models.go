package postgresadapter

import (
	"encoding/json"
	"strings"
	"time"

	"choices/contexts/polling/vote-engine/domain/entities"
	"choices/contexts/polling/vote-engine/ports"
)

type pollModel struct {
	ID          string    `gorm:"column:id;primaryKey"`
	Title       string    `gorm:"column:title"`
	Description string    `gorm:"column:description"`
	Method      string    `gorm:"column:voting_method"`
	Options     string    `gorm:"column:options;type:jsonb"`
	Status      string    `gorm:"column:status"`
	StartTime   time.Time `gorm:"column:start_time"`
	EndTime     time.Time `gorm:"column:end_time"`
	Config      string    `gorm:"column:voting_config;type:jsonb"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (pollModel) TableName() string {
	return "polls"
}

type pollOptionDoc struct {
	OptionID string `json:"option_id"`
	Text     string `json:"text"`
}

type votingConfigDoc struct {
	MaxChoices       int `json:"max_choices,omitempty"`
	QuadraticCredits int `json:"quadratic_credits,omitempty"`
	RangeMin         int `json:"range_min,omitempty"`
	RangeMax         int `json:"range_max,omitempty"`
}

func (m pollModel) toEntity() (entities.Poll, error) {
	var optionDocs []pollOptionDoc
	if strings.TrimSpace(m.Options) != "" {
		if err := json.Unmarshal([]byte(m.Options), &optionDocs); err != nil {
			return entities.Poll{}, err
		}
	}
	options := make([]entities.Option, 0, len(optionDocs))
	for _, doc := range optionDocs {
		options = append(options, entities.Option{
			OptionID: doc.OptionID,
			Text:     doc.Text,
		})
	}

	var configDoc votingConfigDoc
	if strings.TrimSpace(m.Config) != "" {
		if err := json.Unmarshal([]byte(m.Config), &configDoc); err != nil {
			return entities.Poll{}, err
		}
	}

	return entities.Poll{
		PollID:      m.ID,
		Title:       m.Title,
		Description: m.Description,
		Method:      entities.VotingMethod(m.Method),
		Options:     options,
		Status:      entities.PollStatus(m.Status),
		StartTime:   m.StartTime.UTC(),
		EndTime:     m.EndTime.UTC(),
		Config: entities.VotingConfig{
			MaxChoices:       configDoc.MaxChoices,
			QuadraticCredits: configDoc.QuadraticCredits,
			RangeMin:         configDoc.RangeMin,
			RangeMax:         configDoc.RangeMax,
		},
		CreatedAt: m.CreatedAt.UTC(),
	}, nil
}

type ballotModel struct {
	ID        string    `gorm:"column:id;primaryKey"`
	PollID    string    `gorm:"column:poll_id"`
	UserID    string    `gorm:"column:user_id"`
	Method    string    `gorm:"column:voting_method"`
	VoteData  string    `gorm:"column:vote_data;type:jsonb"`
	Privacy   string    `gorm:"column:privacy_level"`
	TrustTier string    `gorm:"column:trust_tier"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (ballotModel) TableName() string {
	return "ballots"
}

type voteDataDoc struct {
	Choice  *int           `json:"choice,omitempty"`
	Choices []int          `json:"choices,omitempty"`
	Ranking []int          `json:"ranking,omitempty"`
	Credits map[string]int `json:"credits,omitempty"`
	Scores  map[string]int `json:"scores,omitempty"`
}

func ballotModelFromEntity(ballot entities.Ballot) (ballotModel, error) {
	payload, err := json.Marshal(voteDataDoc{
		Choice:  ballot.Data.Choice,
		Choices: ballot.Data.Choices,
		Ranking: ballot.Data.Ranking,
		Credits: ballot.Data.Credits,
		Scores:  ballot.Data.Scores,
	})
	if err != nil {
		return ballotModel{}, err
	}
	row := ballotModel{
		ID:        strings.TrimSpace(ballot.BallotID),
		PollID:    strings.TrimSpace(ballot.PollID),
		UserID:    strings.TrimSpace(ballot.UserID),
		Method:    string(ballot.Method),
		VoteData:  string(payload),
		Privacy:   string(ballot.Privacy),
		TrustTier: string(ballot.TrustTier),
		CreatedAt: ballot.CreatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	return row, nil
}

func (m ballotModel) toEntity() (entities.Ballot, error) {
	var doc voteDataDoc
	if strings.TrimSpace(m.VoteData) != "" {
		if err := json.Unmarshal([]byte(m.VoteData), &doc); err != nil {
			return entities.Ballot{}, err
		}
	}
	return entities.Ballot{
		BallotID: m.ID,
		PollID:   m.PollID,
		UserID:   m.UserID,
		Method:   entities.VotingMethod(m.Method),
		Data: entities.VoteData{
			Choice:  doc.Choice,
			Choices: doc.Choices,
			Ranking: doc.Ranking,
			Credits: doc.Credits,
			Scores:  doc.Scores,
		},
		Privacy:   entities.PrivacyLevel(m.Privacy),
		TrustTier: entities.TrustTier(m.TrustTier),
		CreatedAt: m.CreatedAt.UTC(),
	}, nil
}

type outboxModel struct {
	ID           string     `gorm:"column:id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      string     `gorm:"column:payload;type:jsonb"`
	Status       string     `gorm:"column:status"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "vote_audit_outbox"
}

func outboxModelFromEnvelope(envelope ports.EventEnvelope) (outboxModel, error) {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return outboxModel{}, err
	}
	createdAt := envelope.OccurredAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	return outboxModel{
		ID:           strings.TrimSpace(envelope.EventID),
		EventType:    strings.TrimSpace(envelope.EventType),
		PartitionKey: strings.TrimSpace(envelope.PartitionKey),
		Payload:      string(payload),
		Status:       outboxStatusPending,
		CreatedAt:    createdAt,
	}, nil
}
