package entities

import "go.mongodb.org/mongo-driver/bson/primitive"

// CodeMapping maps a BNF code to the name of a drug record.
type CodeMapping struct {
	ID   primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Code string             `bson:"code" json:"code"`
	Name string             `bson:"name" json:"name"`
}
