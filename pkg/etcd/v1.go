package etcd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	clientv3 "go.etcd.io/etcd/client/v3"
)

const (
	envAppName        = "APP_NAME"
	envEtcdServer     = "ETCD_SERVER"
	envEtcdUsername   = "ETCD_USERNAME"
	envEtcdPassword   = "ETCD_PASSWORD"
	envWatcherEnabled = "ETCD_WATCHER_ENABLED"

	configPath  = "/config/"
	dialTimeout = 5 * time.Second
)

type V1 struct {
	conn               *clientv3.Client
	basePath           string
	config             interface{}
	watchPathCallbacks map[string][]func() error
	mu                 sync.Mutex
}

func newV1Etcd(config interface{}) Etcd {
	if !viper.IsSet(envAppName) || !viper.IsSet(envEtcdServer) {
		log.Panic().Msgf("%s or %s is not set", envAppName, envEtcdServer)
	}
	appName := viper.GetString(envAppName)
	servers := strings.Split(viper.GetString(envEtcdServer), ",")
	var username, password string
	if viper.IsSet(envEtcdUsername) && viper.IsSet(envEtcdPassword) {
		username = viper.GetString(envEtcdUsername)
		password = viper.GetString(envEtcdPassword)
	}

	conn, err := clientv3.New(clientv3.Config{
		Endpoints:           servers,
		Username:            username,
		Password:            password,
		DialTimeout:         dialTimeout,
		DialKeepAliveTime:   dialTimeout,
		PermitWithoutStream: true,
	})
	if err != nil {
		log.Panic().Err(err).Msg("failed to create etcd client")
	}

	v1 := &V1{
		conn:               conn,
		basePath:           configPath + appName,
		config:             config,
		watchPathCallbacks: make(map[string][]func() error),
	}
	if err := v1.reload(); err != nil {
		log.Panic().Err(err).Msg("unable to load config from etcd")
	}
	if viper.GetBool(envWatcherEnabled) {
		v1.watchPrefix(context.Background(), v1.basePath)
	}
	return v1
}

func (v *V1) GetConfigInstance() interface{} {
	return v.config
}

// reload fetches every section under basePath and unmarshals each JSON
// document into the config field whose json tag matches the section key.
func (v *V1) reload() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	resp, err := v.conn.Get(context.Background(), v.basePath, clientv3.WithPrefix())
	if err != nil {
		log.Error().Err(err).Msgf("error getting config from etcd path %s", v.basePath)
		return err
	}
	sections := make(map[string][]byte, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		key := strings.TrimPrefix(string(kv.Key), v.basePath+"/")
		if key == string(kv.Key) || key == "" {
			continue
		}
		sections[key] = kv.Value
	}
	return v.applySections(sections)
}

func (v *V1) applySections(sections map[string][]byte) error {
	valPtr := reflect.ValueOf(v.config)
	if valPtr.Kind() != reflect.Ptr || valPtr.IsNil() {
		return errors.New("config must be a non-nil pointer")
	}
	val := valPtr.Elem()
	if val.Kind() != reflect.Struct {
		return errors.New("config must be a pointer to struct")
	}
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		tag := strings.Split(typ.Field(i).Tag.Get("json"), ",")[0]
		if tag == "" || tag == "-" {
			continue
		}
		data, ok := sections[tag]
		if !ok {
			continue
		}
		if err := json.Unmarshal(data, val.Field(i).Addr().Interface()); err != nil {
			return fmt.Errorf("failed to unmarshal section %s: %w", tag, err)
		}
	}
	return nil
}

func (v *V1) watchPrefix(ctx context.Context, prefix string) {
	watchChan := v.conn.Watch(ctx, prefix, clientv3.WithPrefix())
	go func() {
		for {
			func() {
				defer func() {
					if r := recover(); r != nil {
						log.Error().Msgf("panic in watch prefix: %v", r)
					}
				}()
				for watchResp := range watchChan {
					for _, event := range watchResp.Events {
						log.Debug().Msgf("Key: %s | Type: %s", event.Kv.Key, event.Type.String())
						if err := v.reload(); err != nil {
							log.Error().Err(err).Msg("unable to reload config from etcd, not executing watch callbacks")
							continue
						}
						v.runCallbacks(prefix, string(event.Kv.Key))
					}
				}
			}()

			// Avoid frequent restarts on panics
			time.Sleep(5 * time.Second)
		}
	}()
}

func (v *V1) runCallbacks(prefix, eventKey string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for path, callbacks := range v.watchPathCallbacks {
		if !strings.HasPrefix(eventKey, prefix+path) {
			continue
		}
		for _, callback := range callbacks {
			if err := callback(); err != nil {
				log.Error().Err(err).Msgf("unable to execute watch callback for path %s", path)
			}
		}
	}
}

func (v *V1) SetValue(path string, value interface{}) error {
	_, err := v.conn.Put(context.Background(), path, fmt.Sprintf("%v", value))
	if err != nil {
		log.Error().Msgf("Failed to set value at node %s: %v", path, err)
		return err
	}
	return nil
}

// IsNodeExist checks if a node exists at the given path
func (v *V1) IsNodeExist(path string) (bool, error) {
	response, err := v.conn.Get(context.Background(), path, clientv3.WithPrefix())
	if err != nil {
		return false, err
	}
	return len(response.Kvs) > 0, nil
}

// RegisterWatchPathCallback registers a callback function to be called when a change is detected in the given path
func (v *V1) RegisterWatchPathCallback(path string, callback func() error) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.watchPathCallbacks[path] = append(v.watchPathCallbacks[path], callback)
	return nil
}
